package router

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/abi"
	"github.com/arclight-vm/arclight/protocol/vmlang"
)

var (
	ErrUnreachableMethod = errors.New("method is callable under no completion kind")
	ErrDuplicateMethod   = errors.New("signature already registered")
	ErrSelectorCollision = errors.New("selector collides with a registered signature")
)

// Router accumulates registrations and builds the approval and
// clear-state programs plus the interface descriptor. A Router is
// not safe for concurrent registration; behavior of registrations
// after Build is undefined.
type Router struct {
	name       string
	approval   treeBuilder
	clearState treeBuilder

	sigs     []string          // registration order
	sigToSel map[string]string
	selToSig map[string]string
	methods  []*Method
}

// New creates a Router. The bare-call actions, if any, are seeded
// ahead of all method entries in both trees, guarded by "no call
// arguments supplied".
func New(name string, bare *BareCallActions) (*Router, error) {
	r := &Router{
		name:     name,
		sigToSel: make(map[string]string),
		selToSig: make(map[string]string),
	}
	if !bare.IsEmpty() {
		if err := bare.seedApproval(&r.approval); err != nil {
			return nil, err
		}
		if err := bare.seedClearState(&r.clearState); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m under the default config: plain calls against an
// existing application only.
func (r *Router) Register(m *Method) error {
	return r.RegisterMethod(m, DefaultConfig())
}

// RegisterMethod adds m under mc. Registration is all-or-nothing:
// an unreachable config, a duplicate signature or a selector
// collision leaves the Router unchanged.
func (r *Router) RegisterMethod(m *Method, mc MethodConfig) error {
	if mc.isNever() {
		return errors.Wrapf(ErrUnreachableMethod, "method %s", m.Signature())
	}

	sig := m.Signature()
	if _, ok := r.sigToSel[sig]; ok {
		return errors.Wrapf(ErrDuplicateMethod, "method %s", sig)
	}
	sel := string(m.Selector())
	if prev, ok := r.selToSig[sel]; ok {
		return errors.Wrapf(ErrSelectorCollision, "method %s collides with %s on %x", sig, prev, sel)
	}

	wrapped, err := wrapMethod(m)
	if err != nil {
		return err
	}

	r.approval.addMethod([]byte(sel), mc.approvalCond(), wrapped)
	r.clearState.addMethod([]byte(sel), mc.clearStateCond(), wrapped)

	r.sigs = append(r.sigs, sig)
	r.sigToSel[sig] = sel
	r.selToSig[sel] = sig
	r.methods = append(r.methods, m)
	return nil
}

// Lookup returns the signature registered for a selector.
func (r *Router) Lookup(selector []byte) (sig string, ok bool) {
	sig, ok = r.selToSig[string(selector)]
	return sig, ok
}

// Selector returns the selector registered for a signature.
func (r *Router) Selector(sig string) (selector []byte, ok bool) {
	s, ok := r.sigToSel[sig]
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

// Build produces the two program trees and the descriptor. It fails
// if either tree has no entries.
func (r *Router) Build() (approval, clearState vmlang.Expr, contract *abi.Contract, err error) {
	approval, err = r.approval.construct()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "approval program")
	}
	clearState, err = r.clearState.construct()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "clear-state program")
	}

	contract = &abi.Contract{Name: r.name, Methods: []abi.ContractMethod{}}
	for _, m := range r.methods {
		contract.Methods = append(contract.Methods, abi.Describe(m.abiMethod()))
	}
	return approval, clearState, contract, nil
}

// CompileResult is the output of Compile: both programs lowered to
// bytecode, plus the descriptor.
type CompileResult struct {
	Approval   []byte
	ClearState []byte
	Contract   *abi.Contract
}

// Compile builds and lowers both programs for the target VM
// version. Version 0 selects the assembler's default; opts passes
// through to the assembler unchanged.
func (r *Router) Compile(version uint32, opts *vmlang.Options) (*CompileResult, error) {
	approval, clearState, contract, err := r.Build()
	if err != nil {
		return nil, err
	}
	res := &CompileResult{Contract: contract}
	res.Approval, err = vmlang.Assemble(approval, version, opts)
	if err != nil {
		return nil, errors.Wrap(err, "assembling approval program")
	}
	res.ClearState, err = vmlang.Assemble(clearState, version, opts)
	if err != nil {
		return nil, errors.Wrap(err, "assembling clear-state program")
	}
	return res, nil
}
