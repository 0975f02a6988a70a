package abi

import (
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

// Value is a typed scratch-space location. Decode loads an encoded
// argument into it, Encode produces the encoding of its contents,
// and Load exposes the scratch form for handler logic.
//
// The scratch form depends on the type: integers up to 64 bits and
// bools live as VM uint64s, everything else holds its full encoding
// as a byte string. The methods construct program fragments; they
// execute nothing themselves. They panic on misuse, such as a Value
// of a transaction type, since that is a programming error in the
// contract being compiled.
type Value struct {
	typ  Type
	slot *vmlang.Slot
}

// NewValue allocates a scratch location for a value of type t.
func NewValue(t Type) *Value {
	if IsTransactionType(t) {
		panic("abi: transaction arguments carry no value")
	}
	return &Value{typ: t, slot: vmlang.NewSlot()}
}

func (v *Value) Type() Type { return v.typ }

// scratchType reports the VM type of the stored form.
func (v *Value) scratchType() vmlang.Type {
	if isScalar(v.typ) {
		return vmlang.TypeUint64
	}
	return vmlang.TypeBytes
}

// isScalar reports whether t's scratch form is a VM integer.
func isScalar(t Type) bool {
	switch t := t.(type) {
	case UintType:
		return t.Bits <= 64
	case ByteType, BoolType:
		return true
	}
	return false
}

// Load reads the scratch form.
func (v *Value) Load() vmlang.Expr {
	return vmlang.LoadSlot(v.slot, v.scratchType())
}

// Store writes the scratch form directly, without decoding.
func (v *Value) Store(src vmlang.Expr) vmlang.Expr {
	return vmlang.StoreSlot(v.slot, src)
}

// Decode stores the value encoded in src.
func (v *Value) Decode(src vmlang.Expr) vmlang.Expr {
	switch t := v.typ.(type) {
	case UintType:
		if t.Bits <= 64 {
			return v.Store(vmlang.Btoi(src))
		}
		return v.Store(src)
	case ByteType:
		return v.Store(vmlang.Btoi(src))
	case BoolType:
		return v.Store(vmlang.GetBit(src, vmlang.Int(0)))
	default:
		return v.Store(src)
	}
}

// Encode produces the encoding of the stored value.
func (v *Value) Encode() vmlang.Expr {
	switch t := v.typ.(type) {
	case UintType:
		if t.Bits == 64 {
			return vmlang.Itob(v.Load())
		}
		if t.Bits < 64 {
			w := t.Bits / 8
			return vmlang.Extract(vmlang.Itob(v.Load()), vmlang.Int(uint64(8-w)), vmlang.Int(uint64(w)))
		}
		return v.Load()
	case ByteType:
		return vmlang.Extract(vmlang.Itob(v.Load()), vmlang.Int(7), vmlang.Int(1))
	case BoolType:
		return vmlang.SetBit(vmlang.Bytes([]byte{0}), vmlang.Int(0), v.Load())
	default:
		return v.Load()
	}
}

// ExtractElem decodes element i of a tuple-typed value into dst.
// dst must have the element's type.
func (v *Value) ExtractElem(i int, dst *Value) vmlang.Expr {
	tt, ok := v.typ.(TupleType)
	if !ok {
		panic("abi: ExtractElem on non-tuple value")
	}
	if i < 0 || i >= len(tt.Elems) {
		panic("abi: tuple element out of range")
	}
	elem := tt.Elems[i]
	src := v.Load()

	if n, static := elem.size(); static {
		raw := vmlang.Extract(src, vmlang.Int(uint64(headOffset(tt, i))), vmlang.Int(uint64(n)))
		return dst.Decode(raw)
	}

	// Dynamic element: its head is a 16-bit offset into the tuple
	// encoding. The element runs to the start of the next dynamic
	// element, or to the end of the encoding if it is the last one.
	start := vmlang.ExtractUint16(src, vmlang.Int(uint64(headOffset(tt, i))))
	end := vmlang.Len(src)
	for j := i + 1; j < len(tt.Elems); j++ {
		if _, static := tt.Elems[j].size(); !static {
			end = vmlang.ExtractUint16(src, vmlang.Int(uint64(headOffset(tt, j))))
			break
		}
	}
	raw := vmlang.Extract(src, start, vmlang.Sub(end, start))
	return dst.Decode(raw)
}

// headOffset is the byte offset of element i's head within the
// encoding of tt. Static elements store their encoding in the head;
// dynamic elements store a 2-byte tail offset.
func headOffset(tt TupleType, i int) int {
	off := 0
	for j := 0; j < i; j++ {
		if n, static := tt.Elems[j].size(); static {
			off += n
		} else {
			off += 2
		}
	}
	return off
}

// MethodReturn logs the encoded contents of v tagged with the
// return prefix, the convention by which callers observe a method's
// return value.
func MethodReturn(v *Value) vmlang.Expr {
	return vmlang.Log(vmlang.Concat(vmlang.Bytes(ReturnPrefix()), v.Encode()))
}
