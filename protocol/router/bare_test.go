package router

import (
	"testing"

	"github.com/arclight-vm/arclight/protocol/abi"
	"github.com/arclight-vm/arclight/protocol/vmlang"
	"github.com/arclight-vm/arclight/testutil"
)

func TestNewAction(t *testing.T) {
	handler := vmlang.Approve()

	cases := []struct {
		name    string
		handler Handler
		config  CallConfig
		wantErr error
	}{
		{"handler with permission", handler, CallConfigCall, nil},
		{"empty action", nil, CallConfigNever, nil},
		{"handler without permission", handler, CallConfigNever, ErrActionShape},
		{"permission without handler", nil, CallConfigAll, ErrActionShape},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			testutil.ExpectError(t, c.wantErr, c.name, func() error {
				_, err := NewAction(c.handler, c.config)
				return err
			})
		})
	}
}

func TestActionHelpers(t *testing.T) {
	if CallOnly(vmlang.Approve()).IsEmpty() {
		t.Error("CallOnly action should not be empty")
	}
	if !(OnCompleteAction{}).IsEmpty() {
		t.Error("zero action should be empty")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil handler")
		}
	}()
	Always(nil)
}

func TestBareCallActionsIsEmpty(t *testing.T) {
	var nilActions *BareCallActions
	if !nilActions.IsEmpty() {
		t.Error("nil actions should be empty")
	}
	if !(&BareCallActions{}).IsEmpty() {
		t.Error("zero actions should be empty")
	}
	b := &BareCallActions{OptIn: Always(vmlang.Approve())}
	if b.IsEmpty() {
		t.Error("actions with an opt-in handler should not be empty")
	}
}

func TestWrapBareExpr(t *testing.T) {
	// A handler that runs off its end gets an approve appended.
	logging := vmlang.Log(vmlang.Bytes([]byte("hello")))
	wrapped, err := wrapBare(logging)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	expectSameProgram(t, wrapped, vmlang.Seq(logging, vmlang.Approve()))

	// A terminating handler is used as-is.
	wrapped, err = wrapBare(vmlang.Reject())
	if err != nil {
		testutil.FatalErr(t, err)
	}
	expectSameProgram(t, wrapped, vmlang.Reject())
}

func TestWrapBareShapeErrors(t *testing.T) {
	testutil.ExpectError(t, ErrHandlerShape, "value-yielding handler", func() error {
		_, err := wrapBare(vmlang.Int(1))
		return err
	})
	testutil.ExpectError(t, ErrHandlerShape, "unsupported handler kind", func() error {
		_, err := wrapBare("approve")
		return err
	})

	m, err := ParseMethod("act(uint64)void", func(args []*abi.Value, ret *abi.Value) vmlang.Expr {
		return vmlang.Approve()
	})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectError(t, ErrHandlerShape, "bare handler with arguments", func() error {
		_, err := wrapBare(m)
		return err
	})
}

func TestWrapBareMethod(t *testing.T) {
	body := vmlang.Log(vmlang.Bytes([]byte("pinged")))
	m, err := ParseMethod("ping()void", func(args []*abi.Value, ret *abi.Value) vmlang.Expr {
		return body
	})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	wrapped, err := wrapBare(m)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	expectSameProgram(t, wrapped, vmlang.Seq(body, vmlang.Approve()))
}
