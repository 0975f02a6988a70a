package router

import "github.com/arclight-vm/arclight/protocol/vmlang"

// A Guard is a dispatch precondition: constant-true, constant-false
// or a VM predicate. The constant forms are distinct from constant
// expressions so that tree construction can drop never-reachable
// entries and skip asserting always-true ones.
type Guard struct {
	truth bool
	expr  vmlang.Expr
}

var (
	// GuardAlways admits every call.
	GuardAlways = Guard{truth: true}

	// GuardNever admits no call.
	GuardNever = Guard{}
)

// ExprGuard admits calls for which e evaluates true.
func ExprGuard(e vmlang.Expr) Guard {
	if e == nil {
		panic("router: nil guard expression")
	}
	return Guard{expr: e}
}

func (g Guard) IsAlways() bool { return g.expr == nil && g.truth }
func (g Guard) IsNever() bool  { return g.expr == nil && !g.truth }

// Expr returns the predicate of an expression guard, nil for the
// constant forms.
func (g Guard) Expr() vmlang.Expr { return g.expr }
