package router

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/vm"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

var ErrActionShape = errors.New("bare-call action/config mismatch")

// A Handler is something a dispatch entry can run: a vmlang.Expr
// producing no value, or a *Method.
type Handler interface{}

// OnCompleteAction pairs a bare-call handler with the CallConfig
// under which it may run. A handler is present exactly when the
// config permits something; the constructors enforce this, so the
// zero value (no handler, never callable) is the only other valid
// state.
type OnCompleteAction struct {
	handler Handler
	config  CallConfig
}

// NewAction builds an action, rejecting a handler without a
// permitting config and a permitting config without a handler.
func NewAction(handler Handler, config CallConfig) (OnCompleteAction, error) {
	if (handler == nil) != (config == CallConfigNever) {
		return OnCompleteAction{}, errors.Wrapf(ErrActionShape, "handler present: %t, config %s", handler != nil, config)
	}
	return OnCompleteAction{handler: handler, config: config}, nil
}

// CallOnly permits the handler only against an existing
// application. It panics on a nil handler; use the zero
// OnCompleteAction for "never".
func CallOnly(h Handler) OnCompleteAction { return mustAction(h, CallConfigCall) }

// CreateOnly permits the handler only while creating the
// application.
func CreateOnly(h Handler) OnCompleteAction { return mustAction(h, CallConfigCreate) }

// Always permits the handler unconditionally.
func Always(h Handler) OnCompleteAction { return mustAction(h, CallConfigAll) }

func mustAction(h Handler, cc CallConfig) OnCompleteAction {
	a, err := NewAction(h, cc)
	if err != nil {
		panic(err)
	}
	return a
}

// IsEmpty reports whether the action has no handler.
func (a OnCompleteAction) IsEmpty() bool { return a.handler == nil }

// BareCallActions routes calls that carry no method selector, one
// handler per completion kind.
type BareCallActions struct {
	NoOp              OnCompleteAction
	OptIn             OnCompleteAction
	CloseOut          OnCompleteAction
	ClearState        OnCompleteAction
	UpdateApplication OnCompleteAction
	DeleteApplication OnCompleteAction
}

// IsEmpty reports whether no completion kind has a handler.
func (b *BareCallActions) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.NoOp.IsEmpty() &&
		b.OptIn.IsEmpty() &&
		b.CloseOut.IsEmpty() &&
		b.ClearState.IsEmpty() &&
		b.UpdateApplication.IsEmpty() &&
		b.DeleteApplication.IsEmpty()
}

// approvalActions pairs each approval-program completion kind with
// its action, in dispatch order.
func (b *BareCallActions) approvalActions() []struct {
	oc     vm.OnCompletion
	action OnCompleteAction
} {
	return []struct {
		oc     vm.OnCompletion
		action OnCompleteAction
	}{
		{vm.OnCompletionNoOp, b.NoOp},
		{vm.OnCompletionOptIn, b.OptIn},
		{vm.OnCompletionCloseOut, b.CloseOut},
		{vm.OnCompletionUpdateApplication, b.UpdateApplication},
		{vm.OnCompletionDeleteApplication, b.DeleteApplication},
	}
}

// seedApproval adds one entry per non-empty approval action to tb,
// guarded by the bare-call check, the completion-kind match, and
// the action's own condition.
func (b *BareCallActions) seedApproval(tb *treeBuilder) error {
	for _, entry := range b.approvalActions() {
		if entry.action.IsEmpty() {
			continue
		}
		body, err := wrapBare(entry.action.handler)
		if err != nil {
			return err
		}
		guard := vmlang.And(
			bareCallCheck(),
			vmlang.Eq(vmlang.TxnOnCompletion(), vmlang.Int(uint64(entry.oc))),
		)
		cond := entry.action.config.Condition()
		if !cond.IsAlways() {
			body = vmlang.Seq(vmlang.Assert(cond.Expr()), body)
		}
		tb.add(guard, body)
	}
	return nil
}

// seedClearState adds the clear-state action to tb, if present. The
// completion kind is implicit in the program, so only the bare-call
// check and the action's condition guard it.
func (b *BareCallActions) seedClearState(tb *treeBuilder) error {
	if b.ClearState.IsEmpty() {
		return nil
	}
	body, err := wrapBare(b.ClearState.handler)
	if err != nil {
		return err
	}
	cond := b.ClearState.config.Condition()
	if !cond.IsAlways() {
		body = vmlang.Seq(vmlang.Assert(cond.Expr()), body)
	}
	tb.add(bareCallCheck(), body)
	return nil
}

// bareCallCheck is the guard distinguishing bare calls: no call
// arguments were supplied.
func bareCallCheck() vmlang.Expr {
	return vmlang.Eq(vmlang.TxnNumAppArgs(), vmlang.Int(0))
}
