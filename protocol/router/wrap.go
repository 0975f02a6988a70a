package router

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/abi"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

var ErrHandlerShape = errors.New("bad handler shape")

// wrapBare prepares a handler for a bare-call entry. An expression
// handler must yield no value; it is used as-is if it already
// terminates the program, otherwise followed by an approve. A
// *Method handler must declare no arguments and no return.
func wrapBare(h Handler) (vmlang.Expr, error) {
	switch h := h.(type) {
	case *Method:
		if h.Impl == nil {
			return nil, errors.Wrapf(ErrHandlerShape, "method %s has no implementation", h.Name)
		}
		if len(h.Args) != 0 || h.Returns != nil {
			return nil, errors.Wrapf(ErrHandlerShape, "bare handler %s must take no arguments and return nothing", h.Signature())
		}
		return wrapBare(h.Impl(nil, nil))
	case vmlang.Expr:
		if h.Type() != vmlang.TypeNone {
			return nil, errors.Wrapf(ErrHandlerShape, "bare handler yields a %s value", h.Type())
		}
		if h.Terminates() {
			return h, nil
		}
		return vmlang.Seq(h, vmlang.Approve()), nil
	default:
		return nil, errors.Wrapf(ErrHandlerShape, "unsupported bare handler %T", h)
	}
}

// wrapMethod builds the dispatch body for a method call: marshal
// every argument into scratch space, run the implementation, then
// log the encoded return value (if any) and approve.
//
// Direct arguments arrive one per call-argument slot starting at
// slot 1. When there are more direct arguments than slots, the
// leading ones keep their own slots and the final slot carries the
// rest packed as a tuple, which is destructured here. Transaction
// references arrive as preceding transactions in the atomic group:
// the i'th of k references is the transaction k-i positions before
// the method call itself.
func wrapMethod(m *Method) (vmlang.Expr, error) {
	if m.Impl == nil {
		return nil, errors.Wrapf(ErrHandlerShape, "method %s has no implementation", m.Name)
	}

	var direct, refs []int
	for i, t := range m.Args {
		if abi.IsTransactionType(t) {
			refs = append(refs, i)
		} else {
			direct = append(direct, i)
		}
	}

	values := make([]*abi.Value, len(m.Args))
	var stmts []vmlang.Expr

	if len(direct) <= abi.MethodArgCutoff {
		for j, argIdx := range direct {
			values[argIdx] = abi.NewValue(m.Args[argIdx])
			stmts = append(stmts, values[argIdx].Decode(vmlang.TxnApplicationArg(j+1)))
		}
	} else {
		keep := abi.MethodArgCutoff - 1
		for j := 0; j < keep; j++ {
			argIdx := direct[j]
			values[argIdx] = abi.NewValue(m.Args[argIdx])
			stmts = append(stmts, values[argIdx].Decode(vmlang.TxnApplicationArg(j+1)))
		}
		overflow := direct[keep:]
		elems := make([]abi.Type, len(overflow))
		for i, argIdx := range overflow {
			elems[i] = m.Args[argIdx]
		}
		packed := abi.NewValue(abi.TupleType{Elems: elems})
		stmts = append(stmts, packed.Decode(vmlang.TxnApplicationArg(abi.MethodArgCutoff)))
		for i, argIdx := range overflow {
			values[argIdx] = abi.NewValue(m.Args[argIdx])
			stmts = append(stmts, packed.ExtractElem(i, values[argIdx]))
		}
	}

	k := len(refs)
	for i, argIdx := range refs {
		values[argIdx] = abi.NewValue(abi.UintType{Bits: 64})
		stmts = append(stmts, values[argIdx].Store(
			vmlang.Sub(vmlang.TxnGroupIndex(), vmlang.Int(uint64(k-i)))))
	}

	if m.Returns != nil {
		ret := abi.NewValue(m.Returns)
		body := m.Impl(values, ret)
		if body.Type() != vmlang.TypeNone {
			return nil, errors.Wrapf(ErrHandlerShape, "method %s body yields a bare %s value", m.Name, body.Type())
		}
		stmts = append(stmts, body, abi.MethodReturn(ret), vmlang.Approve())
	} else {
		body := m.Impl(values, nil)
		if body.Type() != vmlang.TypeNone {
			return nil, errors.Wrapf(ErrHandlerShape, "void method %s body yields a %s value", m.Name, body.Type())
		}
		stmts = append(stmts, body)
		if !body.Terminates() {
			stmts = append(stmts, vmlang.Approve())
		}
	}
	return vmlang.Seq(stmts...), nil
}
