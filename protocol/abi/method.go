package abi

import (
	"strings"

	"github.com/arclight-vm/arclight/crypto/sighash"
	"github.com/arclight-vm/arclight/errors"
)

// MethodArgCutoff is the number of application arguments available
// for method arguments: one of the MaxAppArgs slots carries the
// selector. A method with more arguments than the cutoff packs the
// overflow into a tuple in the final slot.
const (
	MaxAppArgs      = 16
	MethodArgCutoff = MaxAppArgs - 1
)

var ErrSignature = errors.New("bad method signature")

// Method is a parsed method signature. A nil Returns means the
// method returns nothing.
type Method struct {
	Name    string
	Args    []Type
	Returns Type
}

// Signature returns the canonical signature string,
// name(argtypes)returntype, with "void" for no return.
func (m Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, a := range m.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	if m.Returns == nil {
		sb.WriteString("void")
	} else {
		sb.WriteString(m.Returns.String())
	}
	return sb.String()
}

// Selector returns the 4-byte selector of the method, the hash
// prefix of its canonical signature.
func (m Method) Selector() []byte {
	return MethodSelector(m.Signature())
}

// MethodSelector computes the selector of a signature string.
func MethodSelector(sig string) []byte {
	h := sighash.Sum([]byte(sig))
	return h[:sighash.SelectorSize]
}

// ReturnPrefix tags logged method return values. It is the
// selector of the signature "return".
func ReturnPrefix() []byte {
	return MethodSelector("return")
}

// ParseMethod parses a canonical signature string.
func ParseMethod(sig string) (Method, error) {
	open := strings.Index(sig, "(")
	if open <= 0 {
		return Method{}, errors.Wrapf(ErrSignature, "missing argument list in %q", sig)
	}
	closing := matchParen(sig, open)
	if closing < 0 {
		return Method{}, errors.Wrapf(ErrSignature, "unbalanced parentheses in %q", sig)
	}
	m := Method{Name: sig[:open]}

	parts, err := splitTopLevel(sig[open+1 : closing])
	if err != nil {
		return Method{}, err
	}
	for _, p := range parts {
		t, err := ParseType(p)
		if err != nil {
			return Method{}, err
		}
		m.Args = append(m.Args, t)
	}

	ret := sig[closing+1:]
	if ret == "" {
		return Method{}, errors.Wrapf(ErrSignature, "missing return type in %q", sig)
	}
	if ret != "void" {
		t, err := ParseType(ret)
		if err != nil {
			return Method{}, err
		}
		if IsTransactionType(t) {
			return Method{}, errors.Wrapf(ErrSignature, "%s is not a return type", ret)
		}
		m.Returns = t
	}
	return m, nil
}

// matchParen returns the index of the parenthesis closing the one
// at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
