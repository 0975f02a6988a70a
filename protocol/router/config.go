package router

import (
	"github.com/arclight-vm/arclight/protocol/vm"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

// CallConfig says when a handler may run for one completion kind:
// never, only against an existing application, only while creating
// one, or both.
type CallConfig uint8

const (
	CallConfigNever CallConfig = iota
	CallConfigCall
	CallConfigCreate
	CallConfigAll
)

func (cc CallConfig) String() string {
	switch cc {
	case CallConfigNever:
		return "never"
	case CallConfigCall:
		return "call"
	case CallConfigCreate:
		return "create"
	case CallConfigAll:
		return "all"
	}
	return "invalid"
}

// Condition returns the guard admitting calls permitted by cc. The
// enumeration is closed; any other value is a corrupted config and
// panics.
func (cc CallConfig) Condition() Guard {
	switch cc {
	case CallConfigNever:
		return GuardNever
	case CallConfigCall:
		return ExprGuard(vmlang.Neq(vmlang.TxnApplicationID(), vmlang.Int(0)))
	case CallConfigCreate:
		return ExprGuard(vmlang.Eq(vmlang.TxnApplicationID(), vmlang.Int(0)))
	case CallConfigAll:
		return GuardAlways
	}
	panic("router: unknown call config " + cc.String())
}

// MethodConfig holds one CallConfig per completion kind.
type MethodConfig struct {
	NoOp              CallConfig
	OptIn             CallConfig
	CloseOut          CallConfig
	ClearState        CallConfig
	UpdateApplication CallConfig
	DeleteApplication CallConfig
}

// DefaultConfig permits plain calls against an existing application
// and nothing else.
func DefaultConfig() MethodConfig {
	return MethodConfig{NoOp: CallConfigCall}
}

// AllowAll permits every completion kind unconditionally.
func AllowAll() MethodConfig {
	return MethodConfig{
		NoOp:              CallConfigAll,
		OptIn:             CallConfigAll,
		CloseOut:          CallConfigAll,
		ClearState:        CallConfigAll,
		UpdateApplication: CallConfigAll,
		DeleteApplication: CallConfigAll,
	}
}

// isNever reports whether no completion kind permits the method.
func (mc MethodConfig) isNever() bool {
	return mc.NoOp == CallConfigNever &&
		mc.OptIn == CallConfigNever &&
		mc.CloseOut == CallConfigNever &&
		mc.ClearState == CallConfigNever &&
		mc.UpdateApplication == CallConfigNever &&
		mc.DeleteApplication == CallConfigNever
}

// approvalKinds pairs each completion kind handled by the approval
// program with its config. Clear-state is excluded; it has its own
// program.
func (mc MethodConfig) approvalKinds() []struct {
	oc vm.OnCompletion
	cc CallConfig
} {
	return []struct {
		oc vm.OnCompletion
		cc CallConfig
	}{
		{vm.OnCompletionNoOp, mc.NoOp},
		{vm.OnCompletionOptIn, mc.OptIn},
		{vm.OnCompletionCloseOut, mc.CloseOut},
		{vm.OnCompletionUpdateApplication, mc.UpdateApplication},
		{vm.OnCompletionDeleteApplication, mc.DeleteApplication},
	}
}

// approvalCond computes the guard under which the approval program
// may dispatch to the method: the disjunction over permitted
// completion kinds of "completion matches, and the kind's own
// condition holds".
func (mc MethodConfig) approvalCond() Guard {
	kinds := mc.approvalKinds()

	allNever, allAll := true, true
	for _, k := range kinds {
		if k.cc != CallConfigNever {
			allNever = false
		}
		if k.cc != CallConfigAll {
			allAll = false
		}
	}
	if allNever {
		return GuardNever
	}
	if allAll {
		return GuardAlways
	}

	var terms []vmlang.Expr
	for _, k := range kinds {
		cond := k.cc.Condition()
		if cond.IsNever() {
			continue
		}
		match := vmlang.Eq(vmlang.TxnOnCompletion(), vmlang.Int(uint64(k.oc)))
		if cond.IsAlways() {
			terms = append(terms, match)
		} else {
			terms = append(terms, vmlang.And(match, cond.Expr()))
		}
	}
	return ExprGuard(vmlang.Or(terms...))
}

// clearStateCond computes the guard for the clear-state program,
// where the completion kind is implicit.
func (mc MethodConfig) clearStateCond() Guard {
	return mc.ClearState.Condition()
}
