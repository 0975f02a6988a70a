package router

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

var ErrEmptyProgram = errors.New("dispatch tree has no entries")

// A dispatchEntry is one guarded branch of a program. Entries are
// evaluated top to bottom; the first matching guard wins.
type dispatchEntry struct {
	guard vmlang.Expr
	body  vmlang.Expr
}

// treeBuilder accumulates dispatch entries in registration order.
type treeBuilder struct {
	entries []dispatchEntry
}

func (tb *treeBuilder) add(guard, body vmlang.Expr) {
	tb.entries = append(tb.entries, dispatchEntry{guard: guard, body: body})
}

// addMethod contributes a method to the tree under the given
// selector and guard. A never guard contributes nothing; an
// expression guard is asserted after the selector matches, so a
// call that names the method but lacks permission aborts rather
// than falling through.
func (tb *treeBuilder) addMethod(selector []byte, guard Guard, wrapped vmlang.Expr) {
	if guard.IsNever() {
		return
	}
	body := wrapped
	if !guard.IsAlways() {
		body = vmlang.Seq(vmlang.Assert(guard.Expr()), wrapped)
	}
	tb.add(vmlang.Eq(vmlang.TxnApplicationArg(0), vmlang.Bytes(selector)), body)
}

// construct composes the accumulated entries into one conditional
// expression. A tree with no entries cannot make a valid program.
func (tb *treeBuilder) construct() (vmlang.Expr, error) {
	if len(tb.entries) == 0 {
		return nil, ErrEmptyProgram
	}
	arms := make([]vmlang.Arm, len(tb.entries))
	for i, e := range tb.entries {
		arms[i] = vmlang.Arm{If: e.guard, Then: e.body}
	}
	return vmlang.Cond(arms...), nil
}
