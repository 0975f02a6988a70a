package vmlang

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/vm"
)

// Type is the stack effect of evaluating an expression: one value
// of the given kind, or none for statement forms.
type Type int

const (
	TypeNone Type = iota
	TypeUint64
	TypeBytes
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeUint64:
		return "uint64"
	case TypeBytes:
		return "bytes"
	}
	return "invalid"
}

// Expr is one node of a program tree.
type Expr interface {
	// Type reports the kind of value the expression leaves on the
	// stack, if any.
	Type() Type

	// Terminates reports whether evaluating the expression always
	// ends the program, by approving, rejecting or aborting.
	Terminates() bool

	children() []Expr
	assemble(c *compiler) error
}

// Int returns an expression pushing the constant n.
func Int(n uint64) Expr { return intExpr(n) }

type intExpr uint64

func (intExpr) Type() Type { return TypeUint64 }
func (intExpr) Terminates() bool { return false }
func (intExpr) children() []Expr { return nil }
func (e intExpr) assemble(c *compiler) error {
	return c.pushInt(uint64(e))
}

// Bytes returns an expression pushing the constant byte string b.
func Bytes(b []byte) Expr { return bytesExpr(b) }

type bytesExpr []byte

func (bytesExpr) Type() Type { return TypeBytes }
func (bytesExpr) Terminates() bool { return false }
func (bytesExpr) children() []Expr { return nil }
func (e bytesExpr) assemble(c *compiler) error {
	return c.pushBytes([]byte(e))
}

type txnExpr struct {
	field vm.TxnField
}

func (txnExpr) Type() Type { return TypeUint64 }
func (txnExpr) Terminates() bool { return false }
func (txnExpr) children() []Expr { return nil }
func (e txnExpr) assemble(c *compiler) error {
	if err := c.op(vm.OP_TXN); err != nil {
		return err
	}
	c.imm(byte(e.field))
	return nil
}

// TxnApplicationID reads the target application identifier of the
// running call; zero means the application is being created.
func TxnApplicationID() Expr { return txnExpr{vm.FieldApplicationID} }

// TxnOnCompletion reads the declared on-completion of the running
// call.
func TxnOnCompletion() Expr { return txnExpr{vm.FieldOnCompletion} }

// TxnNumAppArgs reads the number of application arguments supplied
// with the running call.
func TxnNumAppArgs() Expr { return txnExpr{vm.FieldNumAppArgs} }

// TxnGroupIndex reads the position of the running call within its
// atomic group.
func TxnGroupIndex() Expr { return txnExpr{vm.FieldGroupIndex} }

type txnaExpr struct {
	field vm.TxnField
	index uint8
}

func (txnaExpr) Type() Type { return TypeBytes }
func (txnaExpr) Terminates() bool { return false }
func (txnaExpr) children() []Expr { return nil }
func (e txnaExpr) assemble(c *compiler) error {
	if err := c.op(vm.OP_TXNA); err != nil {
		return err
	}
	c.imm(byte(e.field), e.index)
	return nil
}

// TxnApplicationArg reads the i'th application argument of the
// running call. Argument 0 carries the method selector on method
// calls.
func TxnApplicationArg(i int) Expr {
	return txnaExpr{vm.FieldApplicationArgs, uint8(i)}
}

type gtxnExpr struct {
	index Expr
	field vm.TxnField
}

func (gtxnExpr) Type() Type { return TypeUint64 }
func (gtxnExpr) Terminates() bool { return false }
func (e gtxnExpr) children() []Expr { return []Expr{e.index} }
func (e gtxnExpr) assemble(c *compiler) error {
	if err := assembleTyped(c, e.index, TypeUint64); err != nil {
		return err
	}
	if err := c.op(vm.OP_GTXN); err != nil {
		return err
	}
	c.imm(byte(e.field))
	return nil
}

// GtxnField reads a field of the transaction at the given position
// in the running call's atomic group.
func GtxnField(index Expr, field vm.TxnField) Expr {
	return gtxnExpr{index, field}
}

type binaryExpr struct {
	op          vm.Op
	left, right Expr
	leftType    Type
	rightType   Type
	result      Type
}

func (e binaryExpr) Type() Type { return e.result }
func (binaryExpr) Terminates() bool { return false }
func (e binaryExpr) children() []Expr { return []Expr{e.left, e.right} }
func (e binaryExpr) assemble(c *compiler) error {
	if err := assembleTyped(c, e.left, e.leftType); err != nil {
		return err
	}
	if err := assembleTyped(c, e.right, e.rightType); err != nil {
		return err
	}
	return c.op(e.op)
}

// Eq returns an expression comparing a and b for equality. Both
// operands must have the same type; integer operands compare with
// NUMEQUAL, byte strings with EQUAL.
func Eq(a, b Expr) Expr { return eqExpr{a, b} }

// Neq is the negation of Eq.
func Neq(a, b Expr) Expr { return Not(Eq(a, b)) }

type eqExpr struct {
	left, right Expr
}

func (eqExpr) Type() Type { return TypeUint64 }
func (eqExpr) Terminates() bool { return false }
func (e eqExpr) children() []Expr { return []Expr{e.left, e.right} }
func (e eqExpr) assemble(c *compiler) error {
	lt, rt := e.left.Type(), e.right.Type()
	if lt != rt || lt == TypeNone {
		return errors.Wrapf(ErrType, "cannot compare %s with %s", lt, rt)
	}
	op := vm.OP_NUMEQUAL
	if lt == TypeBytes {
		op = vm.OP_EQUAL
	}
	if err := e.left.assemble(c); err != nil {
		return err
	}
	if err := e.right.assemble(c); err != nil {
		return err
	}
	return c.op(op)
}

// Add returns an expression computing a + b.
func Add(a, b Expr) Expr {
	return binaryExpr{vm.OP_ADD, a, b, TypeUint64, TypeUint64, TypeUint64}
}

// Sub returns an expression computing a - b.
func Sub(a, b Expr) Expr {
	return binaryExpr{vm.OP_SUB, a, b, TypeUint64, TypeUint64, TypeUint64}
}

// GetBit reads bit i of the byte string v; bit 0 is the leading
// bit of the leading byte.
func GetBit(v, i Expr) Expr {
	return binaryExpr{vm.OP_GETBIT, v, i, TypeBytes, TypeUint64, TypeUint64}
}

// ExtractUint16 reads a 16-bit big-endian integer from b at byte
// offset off.
func ExtractUint16(b, off Expr) Expr {
	return extractUintExpr{vm.OP_EXTRACTU16, b, off}
}

// ExtractUint64 reads a 64-bit big-endian integer from b at byte
// offset off.
func ExtractUint64(b, off Expr) Expr {
	return extractUintExpr{vm.OP_EXTRACTU64, b, off}
}

type extractUintExpr struct {
	op       vm.Op
	src, off Expr
}

func (extractUintExpr) Type() Type { return TypeUint64 }
func (extractUintExpr) Terminates() bool { return false }
func (e extractUintExpr) children() []Expr { return []Expr{e.src, e.off} }
func (e extractUintExpr) assemble(c *compiler) error {
	if err := assembleTyped(c, e.src, TypeBytes); err != nil {
		return err
	}
	if err := assembleTyped(c, e.off, TypeUint64); err != nil {
		return err
	}
	return c.op(e.op)
}

type ternaryExpr struct {
	op      vm.Op
	a, b, d Expr
	result  Type
}

func (e ternaryExpr) Type() Type { return e.result }
func (ternaryExpr) Terminates() bool { return false }
func (e ternaryExpr) children() []Expr { return []Expr{e.a, e.b, e.d} }
func (e ternaryExpr) assemble(c *compiler) error {
	for _, operand := range e.children() {
		if err := operand.assemble(c); err != nil {
			return err
		}
	}
	return c.op(e.op)
}

// Extract returns the length-byte substring of b starting at byte
// offset start.
func Extract(b, start, length Expr) Expr {
	return ternaryExpr{vm.OP_EXTRACT, b, start, length, TypeBytes}
}

// SetBit returns a copy of v with bit i set to bit.
func SetBit(v, i, bit Expr) Expr {
	return ternaryExpr{vm.OP_SETBIT, v, i, bit, TypeBytes}
}

type naryExpr struct {
	op   vm.Op
	args []Expr
	typ  Type
}

func (e naryExpr) Type() Type { return e.typ }
func (naryExpr) Terminates() bool { return false }
func (e naryExpr) children() []Expr { return e.args }
func (e naryExpr) assemble(c *compiler) error {
	if len(e.args) == 0 {
		return errors.WithDetail(ErrType, "empty operand list")
	}
	for i, a := range e.args {
		if err := assembleTyped(c, a, e.typ); err != nil {
			return err
		}
		if i > 0 {
			if err := c.op(e.op); err != nil {
				return err
			}
		}
	}
	return nil
}

// And returns the boolean conjunction of its operands.
func And(args ...Expr) Expr {
	return naryExpr{vm.OP_BOOLAND, args, TypeUint64}
}

// Or returns the boolean disjunction of its operands.
func Or(args ...Expr) Expr {
	return naryExpr{vm.OP_BOOLOR, args, TypeUint64}
}

// Concat returns the concatenation of its byte-string operands.
func Concat(args ...Expr) Expr {
	return naryExpr{vm.OP_CAT, args, TypeBytes}
}

type unaryExpr struct {
	op      vm.Op
	operand Expr
	arg     Type
	result  Type
}

func (e unaryExpr) Type() Type { return e.result }
func (unaryExpr) Terminates() bool { return false }
func (e unaryExpr) children() []Expr { return []Expr{e.operand} }
func (e unaryExpr) assemble(c *compiler) error {
	if err := assembleTyped(c, e.operand, e.arg); err != nil {
		return err
	}
	return c.op(e.op)
}

// Not returns the boolean negation of e.
func Not(e Expr) Expr { return unaryExpr{vm.OP_NOT, e, TypeUint64, TypeUint64} }

// Len returns the byte length of e.
func Len(e Expr) Expr { return unaryExpr{vm.OP_SIZE, e, TypeBytes, TypeUint64} }

// Btoi interprets e as a big-endian integer of up to eight bytes.
func Btoi(e Expr) Expr { return unaryExpr{vm.OP_BTOI, e, TypeBytes, TypeUint64} }

// Itob returns the 8-byte big-endian encoding of e.
func Itob(e Expr) Expr { return unaryExpr{vm.OP_ITOB, e, TypeUint64, TypeBytes} }

// Log emits e to the call's log.
func Log(e Expr) Expr { return unaryExpr{vm.OP_LOG, e, TypeBytes, TypeNone} }

// Assert aborts the program unless cond is true.
func Assert(cond Expr) Expr { return assertExpr{cond} }

type assertExpr struct {
	cond Expr
}

func (assertExpr) Type() Type { return TypeNone }
func (assertExpr) Terminates() bool { return false }
func (e assertExpr) children() []Expr { return []Expr{e.cond} }
func (e assertExpr) assemble(c *compiler) error {
	if err := assembleTyped(c, e.cond, TypeUint64); err != nil {
		return err
	}
	return c.op(vm.OP_VERIFY)
}

// Approve ends the program successfully.
func Approve() Expr { return returnExpr{approve: true} }

// Reject ends the program unsuccessfully.
func Reject() Expr { return returnExpr{} }

type returnExpr struct {
	approve bool
}

func (returnExpr) Type() Type { return TypeNone }
func (returnExpr) Terminates() bool { return true }
func (returnExpr) children() []Expr { return nil }
func (e returnExpr) assemble(c *compiler) error {
	var err error
	if e.approve {
		err = c.pushInt(1)
	} else {
		err = c.pushInt(0)
	}
	if err != nil {
		return err
	}
	return c.op(vm.OP_RETURN)
}

// Seq evaluates its operands in order. Every operand but the last
// must leave nothing on the stack; the sequence takes the type of
// its final operand.
func Seq(exprs ...Expr) Expr { return seqExpr(exprs) }

type seqExpr []Expr

func (e seqExpr) Type() Type {
	if len(e) == 0 {
		return TypeNone
	}
	return e[len(e)-1].Type()
}

func (e seqExpr) Terminates() bool {
	for _, sub := range e {
		if sub.Terminates() {
			return true
		}
	}
	return false
}

func (e seqExpr) children() []Expr { return e }

func (e seqExpr) assemble(c *compiler) error {
	if len(e) == 0 {
		return errors.WithDetail(ErrType, "empty sequence")
	}
	for i, sub := range e {
		want := TypeNone
		if i == len(e)-1 {
			want = sub.Type() // the sequence yields whatever the tail yields
		}
		if err := assembleTyped(c, sub, want); err != nil {
			return err
		}
	}
	return nil
}

// An Arm is one guarded branch of a Cond.
type Arm struct {
	If   Expr
	Then Expr
}

// Cond evaluates its arms' guards in order and runs the body of the
// first guard that is true. If no guard matches, the program
// aborts.
func Cond(arms ...Arm) Expr { return condExpr(arms) }

type condExpr []Arm

func (e condExpr) Type() Type {
	if len(e) == 0 {
		return TypeNone
	}
	return e[0].Then.Type()
}

func (e condExpr) Terminates() bool {
	for _, arm := range e {
		if !arm.Then.Terminates() {
			return false
		}
	}
	return len(e) > 0
}

func (e condExpr) children() []Expr {
	var res []Expr
	for _, arm := range e {
		res = append(res, arm.If, arm.Then)
	}
	return res
}

func (e condExpr) assemble(c *compiler) error {
	if len(e) == 0 {
		return errors.WithDetail(ErrType, "conditional with no arms")
	}
	endTarget := c.b.NewJumpTarget()
	armTargets := make([]int, len(e))
	for i, arm := range e {
		armTargets[i] = c.b.NewJumpTarget()
		if err := assembleTyped(c, arm.If, TypeUint64); err != nil {
			return err
		}
		c.b.AddJumpIf(armTargets[i])
	}
	if err := c.op(vm.OP_FAIL); err != nil {
		return err
	}
	for i, arm := range e {
		c.b.SetJumpTarget(armTargets[i])
		if err := arm.Then.assemble(c); err != nil {
			return err
		}
		if !arm.Then.Terminates() && i < len(e)-1 {
			c.b.AddJump(endTarget)
		}
	}
	c.b.SetJumpTarget(endTarget)
	return nil
}

// A Slot names one scratch-space location. Slot numbers are
// assigned per program during assembly, in first-use order.
type Slot struct {
	// The struct is empty on purpose; a Slot's identity is its
	// address.
	_ [0]byte
}

// NewSlot allocates a scratch slot.
func NewSlot() *Slot { return new(Slot) }

// StoreSlot evaluates v and stores the result in s.
func StoreSlot(s *Slot, v Expr) Expr { return storeExpr{s, v} }

type storeExpr struct {
	slot *Slot
	v    Expr
}

func (storeExpr) Type() Type { return TypeNone }
func (storeExpr) Terminates() bool { return false }
func (e storeExpr) children() []Expr { return []Expr{e.v} }
func (e storeExpr) assemble(c *compiler) error {
	if e.v.Type() == TypeNone {
		return errors.WithDetail(ErrType, "storing a valueless expression")
	}
	if err := e.v.assemble(c); err != nil {
		return err
	}
	n, err := c.slot(e.slot)
	if err != nil {
		return err
	}
	if err := c.op(vm.OP_STORE); err != nil {
		return err
	}
	c.imm(byte(n))
	return nil
}

// LoadSlot reads the value most recently stored in s. The caller
// declares the type it expects to find there.
func LoadSlot(s *Slot, t Type) Expr { return loadExpr{s, t} }

type loadExpr struct {
	slot *Slot
	typ  Type
}

func (e loadExpr) Type() Type { return e.typ }
func (loadExpr) Terminates() bool { return false }
func (loadExpr) children() []Expr { return nil }
func (e loadExpr) assemble(c *compiler) error {
	n, err := c.slot(e.slot)
	if err != nil {
		return err
	}
	if err := c.op(vm.OP_LOAD); err != nil {
		return err
	}
	c.imm(byte(n))
	return nil
}

// assembleTyped assembles e after checking that it has the wanted
// type.
func assembleTyped(c *compiler, e Expr, want Type) error {
	if e.Type() != want {
		return errors.Wrapf(ErrType, "have %s, want %s", e.Type(), want)
	}
	return e.assemble(c)
}
