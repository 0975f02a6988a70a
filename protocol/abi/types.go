// Package abi defines the argument type system of the method-call
// convention: type parsing and display, method signatures and their
// selectors, the JSON contract descriptor, and compile-time
// marshaling of argument values into VM scratch space.
package abi

import (
	"strconv"
	"strings"

	"github.com/arclight-vm/arclight/errors"
)

var ErrType = errors.New("bad abi type")

// Type is one argument or return type of a method. Implementations
// are the fixed set defined in this package; parse with ParseType.
type Type interface {
	// String returns the canonical spelling, suitable for use in a
	// method signature.
	String() string

	// size returns the encoded byte width for static types. Dynamic
	// types report ok false.
	size() (n int, ok bool)
}

// UintType is an unsigned big-endian integer of Bits bits.
type UintType struct {
	Bits int
}

func (t UintType) String() string    { return "uint" + strconv.Itoa(t.Bits) }
func (t UintType) size() (int, bool) { return t.Bits / 8, true }

// ByteType is a single byte. It encodes like uint8 but spells
// differently in signatures.
type ByteType struct{}

func (ByteType) String() string    { return "byte" }
func (ByteType) size() (int, bool) { return 1, true }

// BoolType encodes as one byte whose leading bit carries the value.
type BoolType struct{}

func (BoolType) String() string    { return "bool" }
func (BoolType) size() (int, bool) { return 1, true }

// AddressType is a 32-byte account address.
type AddressType struct{}

func (AddressType) String() string    { return "address" }
func (AddressType) size() (int, bool) { return 32, true }

// StringType is a dynamic byte string.
type StringType struct{}

func (StringType) String() string    { return "string" }
func (StringType) size() (int, bool) { return 0, false }

// ArrayType is an array of Elem. N is the length for static
// arrays and -1 for dynamic ones.
type ArrayType struct {
	Elem Type
	N    int
}

func (t ArrayType) String() string {
	if t.N < 0 {
		return t.Elem.String() + "[]"
	}
	return t.Elem.String() + "[" + strconv.Itoa(t.N) + "]"
}

func (t ArrayType) size() (int, bool) {
	if t.N < 0 {
		return 0, false
	}
	elem, ok := t.Elem.size()
	if !ok {
		return 0, false
	}
	return t.N * elem, true
}

// TupleType is an ordered heterogeneous sequence of element types.
type TupleType struct {
	Elems []Type
}

func (t TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func (t TupleType) size() (int, bool) {
	total := 0
	for _, e := range t.Elems {
		n, ok := e.size()
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

// TransactionType stands for a transaction that must immediately
// precede the method call in its atomic group. It occupies a
// signature position but consumes no application argument and has
// no encoding.
type TransactionType struct {
	Kind string
}

func (t TransactionType) String() string  { return t.Kind }
func (TransactionType) size() (int, bool) { return 0, false }

var txnKinds = map[string]bool{
	"txn":    true, // any transaction
	"pay":    true,
	"keyreg": true,
	"acfg":   true,
	"axfer":  true,
	"afrz":   true,
	"appl":   true,
}

// IsTransactionType reports whether t names a transaction argument
// rather than an encodable value.
func IsTransactionType(t Type) bool {
	_, ok := t.(TransactionType)
	return ok
}

// ParseType parses the canonical spelling of a type.
func ParseType(s string) (Type, error) {
	if s == "" {
		return nil, errors.WithDetail(ErrType, "empty type")
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open <= 0 {
			return nil, errors.Wrapf(ErrType, "bad array spelling %q", s)
		}
		elem, err := ParseType(s[:open])
		if err != nil {
			return nil, err
		}
		if IsTransactionType(elem) {
			return nil, errors.Wrapf(ErrType, "%s cannot be an array element", elem)
		}
		dim := s[open+1 : len(s)-1]
		if dim == "" {
			return ArrayType{Elem: elem, N: -1}, nil
		}
		n, err := strconv.Atoi(dim)
		if err != nil || n < 0 {
			return nil, errors.Wrapf(ErrType, "bad array length %q", dim)
		}
		return ArrayType{Elem: elem, N: n}, nil
	}

	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return nil, errors.Wrapf(ErrType, "unterminated tuple %q", s)
		}
		parts, err := splitTopLevel(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		elems := make([]Type, len(parts))
		for i, p := range parts {
			elem, err := ParseType(p)
			if err != nil {
				return nil, err
			}
			if IsTransactionType(elem) {
				return nil, errors.Wrapf(ErrType, "%s cannot be a tuple element", elem)
			}
			elems[i] = elem
		}
		return TupleType{Elems: elems}, nil
	}

	switch s {
	case "bool":
		return BoolType{}, nil
	case "byte":
		return ByteType{}, nil
	case "address":
		return AddressType{}, nil
	case "string":
		return StringType{}, nil
	}
	if txnKinds[s] {
		return TransactionType{Kind: s}, nil
	}
	if strings.HasPrefix(s, "uint") {
		bits, err := strconv.Atoi(s[len("uint"):])
		if err != nil || bits <= 0 || bits > 512 || bits%8 != 0 {
			return nil, errors.Wrapf(ErrType, "bad uint width in %q", s)
		}
		return UintType{Bits: bits}, nil
	}
	return nil, errors.Wrapf(ErrType, "unknown type %q", s)
}

// splitTopLevel splits a comma-separated list, ignoring commas
// inside nested parentheses.
func splitTopLevel(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, errors.Wrapf(ErrType, "unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.Wrapf(ErrType, "unbalanced parentheses in %q", s)
	}
	parts = append(parts, s[start:])
	return parts, nil
}
