package checked

import (
	"math"
	"testing"
)

func TestAddUint32(t *testing.T) {
	cases := []struct {
		a, b   uint32
		want   uint32
		wantOK bool
	}{
		{0, 0, 0, true},
		{1, 2, 3, true},
		{math.MaxUint32, 0, math.MaxUint32, true},
		{math.MaxUint32, 1, 0, false},
		{math.MaxUint32 - 1, 2, 0, false},
	}
	for _, c := range cases {
		got, ok := AddUint32(c.a, c.b)
		if got != c.want || ok != c.wantOK {
			t.Errorf("AddUint32(%d, %d) = %d, %v want %d, %v", c.a, c.b, got, ok, c.want, c.wantOK)
		}
	}
}

func TestAddUint64(t *testing.T) {
	if _, ok := AddUint64(math.MaxUint64, 1); ok {
		t.Error("AddUint64(MaxUint64, 1) should overflow")
	}
	if got, ok := AddUint64(5, 7); !ok || got != 12 {
		t.Errorf("AddUint64(5, 7) = %d, %v", got, ok)
	}
}

func TestMulUint32(t *testing.T) {
	if _, ok := MulUint32(1<<20, 1<<13); ok {
		t.Error("MulUint32(1<<20, 1<<13) should overflow")
	}
	if got, ok := MulUint32(0, math.MaxUint32); !ok || got != 0 {
		t.Errorf("MulUint32(0, MaxUint32) = %d, %v", got, ok)
	}
	if got, ok := MulUint32(6, 7); !ok || got != 42 {
		t.Errorf("MulUint32(6, 7) = %d, %v", got, ok)
	}
}
