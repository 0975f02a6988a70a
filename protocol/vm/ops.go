package vm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arclight-vm/arclight/errors"
	"github.com/arclight-vm/arclight/math/checked"
)

type Op uint8

func (op Op) String() string {
	return ops[op].name
}

type Instruction struct {
	Op   Op
	Len  uint32
	Data []byte
}

const (
	OP_FALSE Op = 0x00
	OP_0     Op = 0x00 // synonym

	OP_1    Op = 0x51
	OP_TRUE Op = 0x51 // synonym

	OP_2  Op = 0x52
	OP_3  Op = 0x53
	OP_4  Op = 0x54
	OP_5  Op = 0x55
	OP_6  Op = 0x56
	OP_7  Op = 0x57
	OP_8  Op = 0x58
	OP_9  Op = 0x59
	OP_10 Op = 0x5a
	OP_11 Op = 0x5b
	OP_12 Op = 0x5c
	OP_13 Op = 0x5d
	OP_14 Op = 0x5e
	OP_15 Op = 0x5f
	OP_16 Op = 0x60

	OP_DATA_1  Op = 0x01
	OP_DATA_2  Op = 0x02
	OP_DATA_3  Op = 0x03
	OP_DATA_4  Op = 0x04
	OP_DATA_5  Op = 0x05
	OP_DATA_6  Op = 0x06
	OP_DATA_7  Op = 0x07
	OP_DATA_8  Op = 0x08
	OP_DATA_9  Op = 0x09
	OP_DATA_10 Op = 0x0a
	OP_DATA_11 Op = 0x0b
	OP_DATA_12 Op = 0x0c
	OP_DATA_13 Op = 0x0d
	OP_DATA_14 Op = 0x0e
	OP_DATA_15 Op = 0x0f
	OP_DATA_16 Op = 0x10
	OP_DATA_17 Op = 0x11
	OP_DATA_18 Op = 0x12
	OP_DATA_19 Op = 0x13
	OP_DATA_20 Op = 0x14
	OP_DATA_21 Op = 0x15
	OP_DATA_22 Op = 0x16
	OP_DATA_23 Op = 0x17
	OP_DATA_24 Op = 0x18
	OP_DATA_25 Op = 0x19
	OP_DATA_26 Op = 0x1a
	OP_DATA_27 Op = 0x1b
	OP_DATA_28 Op = 0x1c
	OP_DATA_29 Op = 0x1d
	OP_DATA_30 Op = 0x1e
	OP_DATA_31 Op = 0x1f
	OP_DATA_32 Op = 0x20
	OP_DATA_33 Op = 0x21
	OP_DATA_34 Op = 0x22
	OP_DATA_35 Op = 0x23
	OP_DATA_36 Op = 0x24
	OP_DATA_37 Op = 0x25
	OP_DATA_38 Op = 0x26
	OP_DATA_39 Op = 0x27
	OP_DATA_40 Op = 0x28
	OP_DATA_41 Op = 0x29
	OP_DATA_42 Op = 0x2a
	OP_DATA_43 Op = 0x2b
	OP_DATA_44 Op = 0x2c
	OP_DATA_45 Op = 0x2d
	OP_DATA_46 Op = 0x2e
	OP_DATA_47 Op = 0x2f
	OP_DATA_48 Op = 0x30
	OP_DATA_49 Op = 0x31
	OP_DATA_50 Op = 0x32
	OP_DATA_51 Op = 0x33
	OP_DATA_52 Op = 0x34
	OP_DATA_53 Op = 0x35
	OP_DATA_54 Op = 0x36
	OP_DATA_55 Op = 0x37
	OP_DATA_56 Op = 0x38
	OP_DATA_57 Op = 0x39
	OP_DATA_58 Op = 0x3a
	OP_DATA_59 Op = 0x3b
	OP_DATA_60 Op = 0x3c
	OP_DATA_61 Op = 0x3d
	OP_DATA_62 Op = 0x3e
	OP_DATA_63 Op = 0x3f
	OP_DATA_64 Op = 0x40
	OP_DATA_65 Op = 0x41
	OP_DATA_66 Op = 0x42
	OP_DATA_67 Op = 0x43
	OP_DATA_68 Op = 0x44
	OP_DATA_69 Op = 0x45
	OP_DATA_70 Op = 0x46
	OP_DATA_71 Op = 0x47
	OP_DATA_72 Op = 0x48
	OP_DATA_73 Op = 0x49
	OP_DATA_74 Op = 0x4a
	OP_DATA_75 Op = 0x4b

	OP_PUSHDATA1 Op = 0x4c
	OP_PUSHDATA2 Op = 0x4d
	OP_PUSHDATA4 Op = 0x4e

	OP_NOP Op = 0x61

	OP_JUMP   Op = 0x63
	OP_JUMPIF Op = 0x64
	OP_VERIFY Op = 0x69
	OP_FAIL   Op = 0x6a

	OP_DROP Op = 0x75
	OP_DUP  Op = 0x76

	OP_CAT  Op = 0x7e
	OP_SIZE Op = 0x82

	OP_EQUAL Op = 0x87

	OP_NOT      Op = 0x91
	OP_ADD      Op = 0x93
	OP_SUB      Op = 0x94
	OP_BOOLAND  Op = 0x9a
	OP_BOOLOR   Op = 0x9b
	OP_NUMEQUAL Op = 0x9c

	OP_TXN        Op = 0xc1
	OP_TXNA       Op = 0xc2
	OP_GTXN       Op = 0xc3
	OP_LOG        Op = 0xc4
	OP_BTOI       Op = 0xc5
	OP_ITOB       Op = 0xc6
	OP_GETBIT     Op = 0xc7
	OP_SETBIT     Op = 0xc8
	OP_EXTRACT    Op = 0xc9
	OP_EXTRACTU16 Op = 0xca
	OP_EXTRACTU64 Op = 0xcb
	OP_STORE      Op = 0xcc
	OP_LOAD       Op = 0xcd
	OP_RETURN     Op = 0xce

	OP_INTCBLOCK  Op = 0xd0
	OP_INTC       Op = 0xd1
	OP_BYTECBLOCK Op = 0xd2
	OP_BYTEC      Op = 0xd3
)

// VM versions. Each opcode records the version that introduced it;
// assembling an op into an older program is an error.
const (
	// MinVersion is the oldest VM version still accepted.
	MinVersion = 1

	// DefaultVersion is the version targeted when a caller does not
	// request one.
	DefaultVersion = 4

	// MaxVersion is the newest known VM version.
	MaxVersion = 4
)

type opInfo struct {
	op   Op
	name string

	// ver is the VM version that introduced the op.
	ver uint32

	// imm is the number of fixed immediate bytes following the
	// opcode. Pushdata ops and constant blocks encode their payload
	// lengths themselves and leave imm at zero.
	imm int

	// block marks the varuint-encoded constant block ops, which
	// require bespoke parsing.
	block bool
}

var (
	ops = [256]opInfo{
		OP_FALSE: {op: OP_FALSE, name: "FALSE", ver: 1},

		OP_PUSHDATA1: {op: OP_PUSHDATA1, name: "PUSHDATA1", ver: 1},
		OP_PUSHDATA2: {op: OP_PUSHDATA2, name: "PUSHDATA2", ver: 1},
		OP_PUSHDATA4: {op: OP_PUSHDATA4, name: "PUSHDATA4", ver: 1},

		OP_NOP: {op: OP_NOP, name: "NOP", ver: 1},

		OP_JUMP:   {op: OP_JUMP, name: "JUMP", ver: 1, imm: 4},
		OP_JUMPIF: {op: OP_JUMPIF, name: "JUMPIF", ver: 1, imm: 4},
		OP_VERIFY: {op: OP_VERIFY, name: "VERIFY", ver: 1},
		OP_FAIL:   {op: OP_FAIL, name: "FAIL", ver: 1},

		OP_DROP: {op: OP_DROP, name: "DROP", ver: 1},
		OP_DUP:  {op: OP_DUP, name: "DUP", ver: 1},

		OP_CAT:  {op: OP_CAT, name: "CAT", ver: 1},
		OP_SIZE: {op: OP_SIZE, name: "SIZE", ver: 1},

		OP_EQUAL: {op: OP_EQUAL, name: "EQUAL", ver: 1},

		OP_NOT:      {op: OP_NOT, name: "NOT", ver: 1},
		OP_ADD:      {op: OP_ADD, name: "ADD", ver: 1},
		OP_SUB:      {op: OP_SUB, name: "SUB", ver: 1},
		OP_BOOLAND:  {op: OP_BOOLAND, name: "BOOLAND", ver: 1},
		OP_BOOLOR:   {op: OP_BOOLOR, name: "BOOLOR", ver: 1},
		OP_NUMEQUAL: {op: OP_NUMEQUAL, name: "NUMEQUAL", ver: 1},

		OP_TXN:        {op: OP_TXN, name: "TXN", ver: 2, imm: 1},
		OP_TXNA:       {op: OP_TXNA, name: "TXNA", ver: 2, imm: 2},
		OP_GTXN:       {op: OP_GTXN, name: "GTXN", ver: 2, imm: 1},
		OP_LOG:        {op: OP_LOG, name: "LOG", ver: 2},
		OP_BTOI:       {op: OP_BTOI, name: "BTOI", ver: 2},
		OP_ITOB:       {op: OP_ITOB, name: "ITOB", ver: 2},
		OP_GETBIT:     {op: OP_GETBIT, name: "GETBIT", ver: 3},
		OP_SETBIT:     {op: OP_SETBIT, name: "SETBIT", ver: 3},
		OP_EXTRACT:    {op: OP_EXTRACT, name: "EXTRACT", ver: 3},
		OP_EXTRACTU16: {op: OP_EXTRACTU16, name: "EXTRACTU16", ver: 3},
		OP_EXTRACTU64: {op: OP_EXTRACTU64, name: "EXTRACTU64", ver: 3},
		OP_STORE:      {op: OP_STORE, name: "STORE", ver: 2, imm: 1},
		OP_LOAD:       {op: OP_LOAD, name: "LOAD", ver: 2, imm: 1},
		OP_RETURN:     {op: OP_RETURN, name: "RETURN", ver: 1},

		OP_INTCBLOCK:  {op: OP_INTCBLOCK, name: "INTCBLOCK", ver: 4, block: true},
		OP_INTC:       {op: OP_INTC, name: "INTC", ver: 4, imm: 1},
		OP_BYTECBLOCK: {op: OP_BYTECBLOCK, name: "BYTECBLOCK", ver: 4, block: true},
		OP_BYTEC:      {op: OP_BYTEC, name: "BYTEC", ver: 4, imm: 1},
	}

	opsByName map[string]opInfo
)

// OpVersion returns the VM version that introduced op, or zero for
// an unassigned opcode.
func OpVersion(op Op) uint32 {
	return ops[op].ver
}

// OpImmediates returns the number of fixed immediate bytes following
// op in a program.
func OpImmediates(op Op) int {
	return ops[op].imm
}

// ParseOp parses the op at position pc in prog, returning the parsed
// instruction (opcode plus any associated data).
func ParseOp(prog []byte, pc uint32) (inst Instruction, err error) {
	if len(prog) > math.MaxInt32 {
		err = ErrLongProgram
		return
	}
	l := uint32(len(prog))
	if pc >= l {
		err = ErrShortProgram
		return
	}
	opcode := Op(prog[pc])
	inst.Op = opcode
	inst.Len = 1
	if opcode >= OP_1 && opcode <= OP_16 {
		inst.Data = []byte{uint8(opcode-OP_1) + 1}
		return
	}
	if opcode >= OP_DATA_1 && opcode <= OP_DATA_75 {
		inst.Len += uint32(opcode - OP_DATA_1 + 1)
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+1 : end]
		return
	}
	if opcode == OP_PUSHDATA1 {
		if pc == l-1 {
			err = ErrShortProgram
			return
		}
		n := prog[pc+1]
		inst.Len += uint32(n) + 1
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+2 : end]
		return
	}
	if opcode == OP_PUSHDATA2 {
		if len(prog) < 3 || pc > l-3 {
			err = ErrShortProgram
			return
		}
		n := binary.LittleEndian.Uint16(prog[pc+1 : pc+3])
		inst.Len += uint32(n) + 2
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+3 : end]
		return
	}
	if opcode == OP_PUSHDATA4 {
		if len(prog) < 5 || pc > l-5 {
			err = ErrShortProgram
			return
		}
		inst.Len += 4
		n := binary.LittleEndian.Uint32(prog[pc+1 : pc+5])
		var ok bool
		inst.Len, ok = checked.AddUint32(inst.Len, n)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+5 : end]
		return
	}
	if ops[opcode].block {
		data, n, berr := parseConstBlock(prog[pc+1:], opcode == OP_BYTECBLOCK)
		if berr != nil {
			err = berr
			return
		}
		inst.Len += n
		inst.Data = data
		return
	}
	if imm := ops[opcode].imm; imm > 0 {
		inst.Len += uint32(imm)
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithDetail(checked.ErrOverflow, "immediate exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+1 : end]
		return
	}
	if ops[opcode].name == "" {
		err = ErrUnknownOpcode
	}
	return
}

// parseConstBlock consumes the varuint-encoded payload of an
// INTCBLOCK or BYTECBLOCK op. It returns the payload bytes and the
// number of bytes consumed.
func parseConstBlock(rest []byte, bytesBlock bool) ([]byte, uint32, error) {
	count, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, 0, ErrShortProgram
	}
	total := n
	for i := uint64(0); i < count; i++ {
		v, vn := binary.Uvarint(rest[total:])
		if vn <= 0 {
			return nil, 0, ErrShortProgram
		}
		total += vn
		if bytesBlock {
			if uint64(len(rest[total:])) < v {
				return nil, 0, ErrShortProgram
			}
			total += int(v)
		}
	}
	return rest[:total], uint32(total), nil
}

// ParseProgram parses prog into its instruction sequence.
func ParseProgram(prog []byte) ([]Instruction, error) {
	var result []Instruction
	for pc := uint32(0); pc < uint32(len(prog)); { // update pc inside the loop
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
		var ok bool
		pc, ok = checked.AddUint32(pc, inst.Len)
		if !ok {
			return nil, errors.WithDetail(checked.ErrOverflow, "program counter exceeds max program size")
		}
	}
	return result, nil
}

func init() {
	for i := 1; i <= 75; i++ {
		ops[i] = opInfo{op: Op(i), name: fmt.Sprintf("DATA_%d", i), ver: 1}
	}
	for i := uint8(0); i <= 15; i++ {
		op := uint8(OP_1) + i
		ops[op] = opInfo{op: Op(op), name: fmt.Sprintf("%d", i+1), ver: 1}
	}

	opsByName = make(map[string]opInfo)
	for _, info := range ops {
		if info.name != "" {
			opsByName[info.name] = info
		}
	}
	opsByName["TRUE"] = ops[OP_TRUE]
}
