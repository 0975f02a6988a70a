/*
Package checked implements basic arithmetic operations
with underflow and overflow checks.
*/
package checked

import (
	"errors"
	"math"
)

var ErrOverflow = errors.New("arithmetic overflow")

// AddUint32 returns a + b
// with an integer overflow check.
func AddUint32(a, b uint32) (sum uint32, ok bool) {
	if math.MaxUint32-a < b {
		return 0, false
	}
	return a + b, true
}

// AddUint64 returns a + b
// with an integer overflow check.
func AddUint64(a, b uint64) (sum uint64, ok bool) {
	if math.MaxUint64-a < b {
		return 0, false
	}
	return a + b, true
}

// MulUint32 returns a * b
// with an integer overflow check.
func MulUint32(a, b uint32) (product uint32, ok bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}
