package sighash

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestSum(t *testing.T) {
	cases := []struct {
		data string
		want string
	}{
		{"", "c672b8d1ef56ed28ab87c3622c5114069bdd3ad7b8f9737498d0c01ecef0967a"},
		{"abc", "53048e2681941ef99b2e29b76b4c7dabe4c2d0c634fc6d46e0e2f13107e7af23"},
	}

	for _, c := range cases {
		got := Sum([]byte(c.data))
		want, err := hex.DecodeString(c.want)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got[:], want) {
			t.Errorf("Sum(%q) = %x want %s", c.data, got, c.want)
		}
	}
}

func TestNewMatchesSum(t *testing.T) {
	data := []byte("transfer(address,uint64)bool")

	h := New()
	h.Write(data)
	got := h.Sum(nil)

	want := Sum(data)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("New-based sum %x != Sum %x", got, want)
	}
	if len(got) != Size {
		t.Errorf("checksum is %d bytes, want %d", len(got), Size)
	}
}
