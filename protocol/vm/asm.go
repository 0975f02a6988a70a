package vm

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/arclight-vm/arclight/errors"
)

// Assemble converts a string like "2 3 ADD 5 NUMEQUAL" into
// 0x525393559c. The input should not include PUSHDATA (or OP_<num>)
// ops; those are inferred. Ops with immediates consume the following
// tokens: "TXN OnCompletion", "TXNA ApplicationArgs 1", "STORE 3",
// "JUMP 24", "INTCBLOCK 2 1 100", "BYTECBLOCK 1 0xdeadbeef".
func Assemble(s string) ([]byte, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	var res []byte
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		info, isOp := opsByName[token]
		switch {
		case isOp && info.block:
			n, block, err := assembleConstBlock(tokens[i+1:], info.op == OP_BYTECBLOCK)
			if err != nil {
				return nil, errors.Wrap(err, token)
			}
			res = append(res, byte(info.op))
			res = append(res, block...)
			i += n
		case isOp && info.imm > 0:
			imm, err := assembleImmediates(info, tokens[i+1:])
			if err != nil {
				return nil, errors.Wrap(err, token)
			}
			res = append(res, byte(info.op))
			res = append(res, imm...)
			i += immTokens(info)
		case isOp:
			res = append(res, byte(info.op))
		case strings.HasPrefix(token, "0x"):
			b, err := hex.DecodeString(strings.TrimPrefix(token, "0x"))
			if err != nil {
				return nil, err
			}
			res = append(res, PushdataBytes(b)...)
		case len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'':
			b := make([]byte, 0, len(token)-2)
			for j := 1; j < len(token)-1; j++ {
				if token[j] == '\\' {
					j++
				}
				b = append(b, token[j])
			}
			res = append(res, PushdataBytes(b)...)
		default:
			if num, err := strconv.ParseInt(token, 10, 64); err == nil {
				res = append(res, PushdataInt64(num)...)
				continue
			}
			return nil, errors.Wrap(ErrToken, token)
		}
	}
	return res, nil
}

// immTokens reports how many source tokens the immediates of info
// occupy.
func immTokens(info opInfo) int {
	if info.op == OP_TXNA {
		return 2
	}
	if info.imm == 4 {
		return 1 // jump target address
	}
	return info.imm
}

func assembleImmediates(info opInfo, rest []string) ([]byte, error) {
	switch info.op {
	case OP_JUMP, OP_JUMPIF:
		if len(rest) < 1 {
			return nil, ErrShortProgram
		}
		addr, err := strconv.ParseUint(rest[0], 10, 32)
		if err != nil {
			return nil, errors.Wrap(ErrToken, rest[0])
		}
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(addr))
		return b[:], nil
	case OP_TXN, OP_TXNA, OP_GTXN:
		if len(rest) < 1 {
			return nil, ErrShortProgram
		}
		f, ok := TxnFieldByName(rest[0])
		if !ok {
			return nil, errors.Wrap(ErrToken, rest[0])
		}
		if info.op != OP_TXNA {
			return []byte{byte(f)}, nil
		}
		if len(rest) < 2 {
			return nil, ErrShortProgram
		}
		idx, err := strconv.ParseUint(rest[1], 10, 8)
		if err != nil {
			return nil, errors.Wrap(ErrToken, rest[1])
		}
		return []byte{byte(f), byte(idx)}, nil
	default:
		if len(rest) < 1 {
			return nil, ErrShortProgram
		}
		n, err := strconv.ParseUint(rest[0], 10, 8)
		if err != nil {
			return nil, errors.Wrap(ErrToken, rest[0])
		}
		return []byte{byte(n)}, nil
	}
}

// assembleConstBlock encodes a constant block from its source
// tokens: a count followed by that many integers (INTCBLOCK) or hex
// strings (BYTECBLOCK). It returns the number of tokens consumed.
func assembleConstBlock(rest []string, bytesBlock bool) (int, []byte, error) {
	if len(rest) < 1 {
		return 0, nil, ErrShortProgram
	}
	count, err := strconv.ParseUint(rest[0], 10, 32)
	if err != nil {
		return 0, nil, errors.Wrap(ErrToken, rest[0])
	}
	if uint64(len(rest)-1) < count {
		return 0, nil, ErrShortProgram
	}
	var buf [binary.MaxVarintLen64]byte
	res := buf[:binary.PutUvarint(buf[:], count)]
	for i := uint64(0); i < count; i++ {
		token := rest[1+i]
		if bytesBlock {
			b, err := hex.DecodeString(strings.TrimPrefix(token, "0x"))
			if err != nil {
				return 0, nil, errors.Wrap(ErrToken, token)
			}
			res = append(res, buf[:binary.PutUvarint(buf[:], uint64(len(b)))]...)
			res = append(res, b...)
		} else {
			v, err := strconv.ParseUint(token, 10, 64)
			if err != nil {
				return 0, nil, errors.Wrap(ErrToken, token)
			}
			res = append(res, buf[:binary.PutUvarint(buf[:], v)]...)
		}
	}
	return int(count) + 1, res, nil
}

// Disassemble renders prog in the textual form accepted by
// Assemble.
func Disassemble(prog []byte) (string, error) {
	var strs []string
	for pc := uint32(0); pc < uint32(len(prog)); { // update pc inside the loop
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return "", err
		}
		strs = append(strs, disassembleOp(inst)...)
		pc += inst.Len
	}
	return strings.Join(strs, " "), nil
}

func disassembleOp(inst Instruction) []string {
	op := inst.Op
	switch {
	case op >= OP_1 && op <= OP_16:
		return []string{strconv.Itoa(int(inst.Data[0]))}
	case op >= OP_DATA_1 && op <= OP_DATA_75, op == OP_PUSHDATA1, op == OP_PUSHDATA2, op == OP_PUSHDATA4:
		return []string{fmt.Sprintf("0x%x", inst.Data)}
	case op == OP_JUMP || op == OP_JUMPIF:
		addr := binary.LittleEndian.Uint32(inst.Data)
		return []string{op.String(), strconv.FormatUint(uint64(addr), 10)}
	case op == OP_TXN || op == OP_GTXN:
		return []string{op.String(), TxnField(inst.Data[0]).String()}
	case op == OP_TXNA:
		return []string{op.String(), TxnField(inst.Data[0]).String(), strconv.Itoa(int(inst.Data[1]))}
	case op == OP_INTCBLOCK:
		strs := []string{op.String()}
		count, n := binary.Uvarint(inst.Data)
		strs = append(strs, strconv.FormatUint(count, 10))
		off := n
		for i := uint64(0); i < count; i++ {
			v, vn := binary.Uvarint(inst.Data[off:])
			off += vn
			strs = append(strs, strconv.FormatUint(v, 10))
		}
		return strs
	case op == OP_BYTECBLOCK:
		strs := []string{op.String()}
		count, n := binary.Uvarint(inst.Data)
		strs = append(strs, strconv.FormatUint(count, 10))
		off := n
		for i := uint64(0); i < count; i++ {
			l, ln := binary.Uvarint(inst.Data[off:])
			off += ln
			strs = append(strs, fmt.Sprintf("0x%x", inst.Data[off:off+int(l)]))
			off += int(l)
		}
		return strs
	case ops[op].imm > 0:
		strs := []string{op.String()}
		for _, b := range inst.Data {
			strs = append(strs, strconv.Itoa(int(b)))
		}
		return strs
	default:
		return []string{op.String()}
	}
}

// tokenize splits the input for Assemble, like bufio.ScanWords but
// keeping single-quoted strings (with backslash escapes) intact.
func tokenize(s string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Split(split)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	return tokens, scanner.Err()
}

// split is a bufio.SplitFunc for scanning the input to Assemble. It
// starts like bufio.ScanWords but adjusts the return value to
// account for quoted strings.
func split(inp []byte, atEOF bool) (advance int, token []byte, err error) {
	advance, token, err = bufio.ScanWords(inp, atEOF)
	if err != nil {
		return
	}
	if len(token) > 1 && token[0] != '\'' {
		return
	}

	// Rescan the input, but skip the whitespace that ScanWords skipped.
	start := advance - len(token)
	if len(inp) == start {
		return start, nil, nil
	}
	if inp[start] != '\'' {
		return
	}
	var escape bool
	for i := start + 1; i < len(inp); i++ {
		if escape {
			escape = false
			continue
		}
		switch inp[i] {
		case '\'':
			advance = i + 1
			token = inp[start:advance]
			return
		case '\\':
			escape = true
		}
	}
	// Reached the end of the input with no closing quote.
	if atEOF {
		return 0, nil, ErrToken
	}
	return 0, nil, nil
}
