package router

import (
	"bytes"
	"testing"

	"github.com/arclight-vm/arclight/crypto/sighash"
	"github.com/arclight-vm/arclight/protocol/abi"
	"github.com/arclight-vm/arclight/protocol/vm"
	"github.com/arclight-vm/arclight/protocol/vmlang"
	"github.com/arclight-vm/arclight/testutil"
)

func addMethod(t *testing.T) *Method {
	return mustParseMethod(t, "add(uint64,uint64)uint64", func(args []*abi.Value, ret *abi.Value) vmlang.Expr {
		return ret.Store(vmlang.Add(args[0].Load(), args[1].Load()))
	})
}

func closeMethod(t *testing.T) *Method {
	return mustParseMethod(t, "close()void", func(args []*abi.Value, ret *abi.Value) vmlang.Expr {
		return vmlang.Log(vmlang.Bytes([]byte("closed")))
	})
}

func newRouter(t *testing.T, bare *BareCallActions) *Router {
	t.Helper()
	r, err := New("demo", bare)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return r
}

func TestRegisterDuplicate(t *testing.T) {
	r := newRouter(t, nil)
	if err := r.Register(addMethod(t)); err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectError(t, ErrDuplicateMethod, "re-registration", func() error {
		return r.Register(addMethod(t))
	})
	if len(r.sigs) != 1 || len(r.approval.entries) != 1 {
		t.Error("failed registration must leave the registry unchanged")
	}
}

func TestRegisterUnreachable(t *testing.T) {
	r := newRouter(t, nil)
	m := addMethod(t)
	testutil.ExpectError(t, ErrUnreachableMethod, "all-never config", func() error {
		return r.RegisterMethod(m, MethodConfig{})
	})
	if len(r.sigs) != 0 {
		t.Fatal("failed registration must leave the registry unchanged")
	}

	// The same method registers fine afterwards.
	if err := r.Register(m); err != nil {
		testutil.FatalErr(t, err)
	}
}

func TestRegisterSelectorCollision(t *testing.T) {
	r := newRouter(t, nil)
	m := addMethod(t)

	// Occupy the selector under a different signature, as a second
	// preimage would.
	r.selToSig[string(m.Selector())] = "other()void"

	testutil.ExpectError(t, ErrSelectorCollision, "colliding selector", func() error {
		return r.Register(m)
	})
	if len(r.sigs) != 0 || len(r.approval.entries) != 0 {
		t.Error("failed registration must leave the registry unchanged")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := newRouter(t, nil)
	m := addMethod(t)
	if err := r.Register(m); err != nil {
		testutil.FatalErr(t, err)
	}

	sel, ok := r.Selector(m.Signature())
	if !ok {
		t.Fatal("registered signature not found")
	}
	testutil.ExpectEqual(t, len(sel), sighash.SelectorSize, "selector size")

	sig, ok := r.Lookup(sel)
	if !ok || sig != m.Signature() {
		t.Errorf("got %q, want %q", sig, m.Signature())
	}

	if _, ok := r.Lookup([]byte{0, 0, 0, 0}); ok {
		t.Error("unregistered selector should not resolve")
	}
}

func TestBuildEmpty(t *testing.T) {
	r := newRouter(t, nil)
	testutil.ExpectError(t, ErrEmptyProgram, "empty router", func() error {
		_, _, _, err := r.Build()
		return err
	})
}

func TestBuildEmptyClearState(t *testing.T) {
	r := newRouter(t, nil)
	// The default config grants nothing to the clear-state program.
	if err := r.Register(addMethod(t)); err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectError(t, ErrEmptyProgram, "no clear-state entries", func() error {
		_, _, _, err := r.Build()
		return err
	})
}

func TestBuildDispatchOrder(t *testing.T) {
	bare := &BareCallActions{
		NoOp:       CreateOnly(vmlang.Approve()),
		ClearState: Always(vmlang.Approve()),
	}
	r := newRouter(t, bare)
	add, close_ := addMethod(t), closeMethod(t)
	if err := r.Register(add); err != nil {
		testutil.FatalErr(t, err)
	}
	closeConfig := MethodConfig{NoOp: CallConfigCall, ClearState: CallConfigCall}
	if err := r.RegisterMethod(close_, closeConfig); err != nil {
		testutil.FatalErr(t, err)
	}

	approval, clearState, _, err := r.Build()
	if err != nil {
		testutil.FatalErr(t, err)
	}

	wrappedAdd, err := wrapMethod(add)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	wrappedClose, err := wrapMethod(close_)
	if err != nil {
		testutil.FatalErr(t, err)
	}

	isCall := vmlang.Neq(vmlang.TxnApplicationID(), vmlang.Int(0))
	isCreate := vmlang.Eq(vmlang.TxnApplicationID(), vmlang.Int(0))
	onCompletion := func(oc vm.OnCompletion) vmlang.Expr {
		return vmlang.Eq(vmlang.TxnOnCompletion(), vmlang.Int(uint64(oc)))
	}
	callGuard := func(oc vm.OnCompletion) vmlang.Expr {
		return vmlang.Or(vmlang.And(onCompletion(oc), isCall))
	}
	selectorMatch := func(m *Method) vmlang.Expr {
		return vmlang.Eq(vmlang.TxnApplicationArg(0), vmlang.Bytes(m.Selector()))
	}

	// The bare-call entry comes first, then methods in registration
	// order.
	wantApproval := vmlang.Cond(
		vmlang.Arm{
			If:   vmlang.And(bareCallCheck(), onCompletion(vm.OnCompletionNoOp)),
			Then: vmlang.Seq(vmlang.Assert(isCreate), vmlang.Approve()),
		},
		vmlang.Arm{
			If:   selectorMatch(add),
			Then: vmlang.Seq(vmlang.Assert(callGuard(vm.OnCompletionNoOp)), wrappedAdd),
		},
		vmlang.Arm{
			If:   selectorMatch(close_),
			Then: vmlang.Seq(vmlang.Assert(callGuard(vm.OnCompletionNoOp)), wrappedClose),
		},
	)
	expectSameProgram(t, approval, wantApproval)

	// The clear-state program checks no completion kind; the bare
	// entry still leads.
	wantClearState := vmlang.Cond(
		vmlang.Arm{If: bareCallCheck(), Then: vmlang.Approve()},
		vmlang.Arm{
			If:   selectorMatch(close_),
			Then: vmlang.Seq(vmlang.Assert(isCall), wrappedClose),
		},
	)
	expectSameProgram(t, clearState, wantClearState)
}

func TestBuildAllowAllGuard(t *testing.T) {
	r := newRouter(t, nil)
	m := addMethod(t)
	if err := r.RegisterMethod(m, AllowAll()); err != nil {
		testutil.FatalErr(t, err)
	}

	approval, clearState, _, err := r.Build()
	if err != nil {
		testutil.FatalErr(t, err)
	}

	// An all-kinds-all config needs no guard assertion in either
	// tree.
	wrapped, err := wrapMethod(m)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	match := vmlang.Eq(vmlang.TxnApplicationArg(0), vmlang.Bytes(m.Selector()))
	expectSameProgram(t, approval, vmlang.Cond(vmlang.Arm{If: match, Then: wrapped}))
	expectSameProgram(t, clearState, vmlang.Cond(vmlang.Arm{If: match, Then: wrapped}))
}

func TestBuildContract(t *testing.T) {
	r := newRouter(t, nil)
	if err := r.RegisterMethod(closeMethod(t), AllowAll()); err != nil {
		testutil.FatalErr(t, err)
	}
	if err := r.RegisterMethod(addMethod(t), AllowAll()); err != nil {
		testutil.FatalErr(t, err)
	}

	_, _, contract, err := r.Build()
	if err != nil {
		testutil.FatalErr(t, err)
	}

	testutil.ExpectEqual(t, contract.Name, "demo", "contract name")
	if len(contract.Methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(contract.Methods))
	}
	// Descriptor preserves registration order.
	testutil.ExpectEqual(t, contract.Methods[0].Name, "close", "first method")
	testutil.ExpectEqual(t, contract.Methods[1].Name, "add", "second method")
	testutil.ExpectEqual(t, contract.Methods[1].Returns.Type, "uint64", "add return type")
}

func TestCompile(t *testing.T) {
	build := func(t *testing.T) *Router {
		r := newRouter(t, &BareCallActions{
			NoOp:       CreateOnly(vmlang.Approve()),
			ClearState: Always(vmlang.Approve()),
		})
		if err := r.Register(addMethod(t)); err != nil {
			testutil.FatalErr(t, err)
		}
		return r
	}

	res, err := build(t).Compile(0, nil)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if len(res.Approval) == 0 || len(res.ClearState) == 0 {
		t.Fatal("empty compiled programs")
	}

	// Compilation is deterministic.
	again, err := build(t).Compile(0, nil)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectScriptEqual(t, again.Approval, res.Approval, "approval program")
	testutil.ExpectScriptEqual(t, again.ClearState, res.ClearState, "clear-state program")

	// Optimization flags pass through to the assembler.
	optimized, err := build(t).Compile(0, &vmlang.Options{Optimize: true, Constants: true})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if bytes.Equal(optimized.Approval, res.Approval) {
		t.Error("constant pooling should change the approval bytecode")
	}

	// Dispatch programs read transaction fields, which version 1
	// lacks.
	testutil.ExpectError(t, vmlang.ErrVersion, "version too low", func() error {
		_, err := build(t).Compile(1, nil)
		return err
	})
}
