package router

import (
	"github.com/arclight-vm/arclight/protocol/abi"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

// Method is a registrable handler with a typed signature. Impl
// receives one abi.Value per declared argument, in order, and the
// return-value location (nil for void methods); it returns the
// body expression, which must store the method's result in ret
// before it finishes.
//
// Transaction-typed arguments carry no encoded value. Their
// abi.Value holds the group index of the referenced transaction as
// a uint64; the handler reads fields of that transaction with
// vmlang.GtxnField.
type Method struct {
	Name    string
	Args    []abi.Type
	Returns abi.Type
	Impl    func(args []*abi.Value, ret *abi.Value) vmlang.Expr
}

func (m *Method) abiMethod() abi.Method {
	return abi.Method{Name: m.Name, Args: m.Args, Returns: m.Returns}
}

// Signature returns the canonical signature string.
func (m *Method) Signature() string { return m.abiMethod().Signature() }

// Selector returns the 4-byte dispatch selector.
func (m *Method) Selector() []byte { return m.abiMethod().Selector() }

// ParseMethod builds a Method from a canonical signature string and
// an implementation.
func ParseMethod(sig string, impl func(args []*abi.Value, ret *abi.Value) vmlang.Expr) (*Method, error) {
	parsed, err := abi.ParseMethod(sig)
	if err != nil {
		return nil, err
	}
	return &Method{
		Name:    parsed.Name,
		Args:    parsed.Args,
		Returns: parsed.Returns,
		Impl:    impl,
	}, nil
}
