package vm

import "encoding/binary"

// PushdataBytes returns the shortest instruction sequence pushing
// the given byte string.
func PushdataBytes(in []byte) []byte {
	l := len(in)
	if l == 0 {
		return []byte{byte(OP_0)}
	}
	if l <= 75 {
		return append([]byte{byte(OP_DATA_1) + uint8(l) - 1}, in...)
	}
	if l < 1<<8 {
		return append([]byte{byte(OP_PUSHDATA1), uint8(l)}, in...)
	}
	if l < 1<<16 {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(l))
		return append([]byte{byte(OP_PUSHDATA2), b[0], b[1]}, in...)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(l))
	return append([]byte{byte(OP_PUSHDATA4), b[0], b[1], b[2], b[3]}, in...)
}

// PushdataInt64 returns the shortest instruction sequence pushing
// the given integer value.
func PushdataInt64(n int64) []byte {
	if n == 0 {
		return []byte{byte(OP_0)}
	}
	if n >= 1 && n <= 16 {
		return []byte{uint8(OP_1) + uint8(n) - 1}
	}
	return PushdataBytes(Int64Bytes(n))
}

// Int64Bytes encodes n in the VM's number representation: the
// minimal little-endian byte string for non-negative values, all
// eight bytes of the two's-complement form for negative ones.
func Int64Bytes(n int64) []byte {
	if n == 0 {
		return []byte{}
	}
	res := make([]byte, 8)
	binary.LittleEndian.PutUint64(res, uint64(n))
	if n < 0 {
		return res
	}
	for len(res) > 0 && res[len(res)-1] == 0 {
		res = res[:len(res)-1]
	}
	return res
}

// AsInt64 decodes the VM number representation produced by
// Int64Bytes.
func AsInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrBadValue
	}
	var padded [8]byte
	copy(padded[:], b)
	res := binary.LittleEndian.Uint64(padded[:])
	return int64(res), nil
}
