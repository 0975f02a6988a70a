package vmlang

import (
	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/protocol/vm"
	"github.com/arclight-vm/arclight/protocol/vmutil"
)

var (
	ErrType    = errors.New("expression type mismatch")
	ErrVersion = errors.New("opcode unavailable at target version")
	ErrSlots   = errors.New("scratch space exhausted")
)

const numSlots = 256

// Options control assembly. The zero value targets plain bytecode
// with no rewriting.
type Options struct {
	// Constants pools repeated integer and byte-string constants
	// into leading INTCBLOCK/BYTECBLOCK instructions. Requires a
	// target version that has constant blocks.
	Constants bool

	// Optimize applies tree-level simplifications before lowering.
	Optimize bool
}

// Assemble lowers e to bytecode for the given VM version. Version 0
// selects vm.DefaultVersion.
func Assemble(e Expr, version uint32, opts *Options) ([]byte, error) {
	if version == 0 {
		version = vm.DefaultVersion
	}
	if version < vm.MinVersion || version > vm.MaxVersion {
		return nil, errors.Wrapf(ErrVersion, "version %d not in [%d, %d]", version, vm.MinVersion, vm.MaxVersion)
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.Optimize {
		e = simplify(e)
	}
	c := &compiler{
		b:       vmutil.NewBuilder(),
		version: version,
		slots:   make(map[*Slot]int),
	}
	if opts.Constants {
		if err := c.poolConstants(e); err != nil {
			return nil, err
		}
	}
	if err := e.assemble(c); err != nil {
		return nil, err
	}
	return c.b.Build()
}

type compiler struct {
	b       *vmutil.Builder
	version uint32
	slots   map[*Slot]int
	nextSlot int

	// Constant pools, nil unless pooling is on. Keys map to indexes
	// in the respective leading constant block.
	intPool  map[uint64]int
	bytePool map[string]int
}

func (c *compiler) op(op vm.Op) error {
	if v := vm.OpVersion(op); v > c.version {
		return errors.Wrapf(ErrVersion, "%s needs version %d, have %d", op.String(), v, c.version)
	}
	c.b.AddOp(op)
	return nil
}

func (c *compiler) imm(bytes ...byte) {
	c.b.AddRawBytes(bytes)
}

func (c *compiler) pushInt(n uint64) error {
	if idx, ok := c.intPool[n]; ok {
		if err := c.op(vm.OP_INTC); err != nil {
			return err
		}
		c.imm(byte(idx))
		return nil
	}
	c.b.AddInt64(int64(n))
	return nil
}

func (c *compiler) pushBytes(b []byte) error {
	if idx, ok := c.bytePool[string(b)]; ok {
		if err := c.op(vm.OP_BYTEC); err != nil {
			return err
		}
		c.imm(byte(idx))
		return nil
	}
	c.b.AddData(b)
	return nil
}

func (c *compiler) slot(s *Slot) (int, error) {
	if n, ok := c.slots[s]; ok {
		return n, nil
	}
	if c.nextSlot >= numSlots {
		return 0, ErrSlots
	}
	n := c.nextSlot
	c.nextSlot++
	c.slots[s] = n
	return n, nil
}

// poolConstants scans e for integer and byte-string constants used
// more than once and emits constant blocks for them. Pool indexes
// follow first appearance in a preorder walk, so assembly is
// deterministic for a given tree.
func (c *compiler) poolConstants(e Expr) error {
	if v := vm.OpVersion(vm.OP_INTCBLOCK); v > c.version {
		return errors.Wrapf(ErrVersion, "constant blocks need version %d, have %d", v, c.version)
	}

	intCount := make(map[uint64]int)
	byteCount := make(map[string]int)
	var intOrder []uint64
	var byteOrder []string
	walk(e, func(sub Expr) {
		switch n := sub.(type) {
		case intExpr:
			if intCount[uint64(n)] == 0 {
				intOrder = append(intOrder, uint64(n))
			}
			intCount[uint64(n)]++
		case bytesExpr:
			if byteCount[string(n)] == 0 {
				byteOrder = append(byteOrder, string(n))
			}
			byteCount[string(n)]++
		case returnExpr:
			// Lowers to a pushed 0 or 1 ahead of RETURN.
			v := uint64(0)
			if n.approve {
				v = 1
			}
			if intCount[v] == 0 {
				intOrder = append(intOrder, v)
			}
			intCount[v]++
		}
	})

	var ints []uint64
	for _, v := range intOrder {
		if intCount[v] > 1 && len(ints) < numSlots {
			ints = append(ints, v)
		}
	}
	var byteStrs []string
	for _, s := range byteOrder {
		if byteCount[s] > 1 && len(byteStrs) < numSlots {
			byteStrs = append(byteStrs, s)
		}
	}

	if len(ints) > 0 {
		if err := c.op(vm.OP_INTCBLOCK); err != nil {
			return err
		}
		c.b.AddUvarint(uint64(len(ints)))
		c.intPool = make(map[uint64]int, len(ints))
		for i, v := range ints {
			c.b.AddUvarint(v)
			c.intPool[v] = i
		}
	}
	if len(byteStrs) > 0 {
		if err := c.op(vm.OP_BYTECBLOCK); err != nil {
			return err
		}
		c.b.AddUvarint(uint64(len(byteStrs)))
		c.bytePool = make(map[string]int, len(byteStrs))
		for i, s := range byteStrs {
			c.b.AddUvarint(uint64(len(s)))
			c.b.AddRawBytes([]byte(s))
			c.bytePool[s] = i
		}
	}
	return nil
}

// walk visits e and all its descendants in preorder.
func walk(e Expr, f func(Expr)) {
	f(e)
	for _, sub := range e.children() {
		walk(sub, f)
	}
}
