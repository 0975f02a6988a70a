package vm

import (
	"encoding/hex"
	"testing"

	"github.com/arclight-vm/arclight/errors"
)

func TestAssemble(t *testing.T) {
	cases := []struct {
		src     string
		wantHex string
	}{
		{"2 3 ADD 5 NUMEQUAL", "525393559c"},
		{"FALSE", "00"},
		{"0", "00"},
		{"17", "0111"},
		{"0xdeadbeef", "04deadbeef"},
		{"'hi'", "026869"},
		{"TRUE VERIFY", "5169"},
		{"TXN OnCompletion 0 NUMEQUAL VERIFY 1 RETURN", "c101009c6951ce"},
		{"TXNA ApplicationArgs 1 SIZE", "c2040182"},
		{"GTXN GroupIndex", "c303"},
		{"STORE 3 LOAD 3", "cc03cd03"},
		{"JUMP 24", "6318000000"},
		{"JUMPIF 7 FAIL", "64070000006a"},
		{"INTCBLOCK 2 1 100 INTC 1", "d0020164d101"},
		{"BYTECBLOCK 1 0xdeadbeef BYTEC 0", "d20104deadbeefd300"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got, err := Assemble(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if hex.EncodeToString(got) != c.wantHex {
				t.Errorf("got %x, want %s", got, c.wantHex)
			}
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	cases := []string{
		"BOGUS",
		"TXN",
		"TXN NotAField",
		"TXNA ApplicationArgs",
		"STORE",
		"JUMP notanumber",
		"INTCBLOCK 2 1",
		"'unterminated",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			if _, err := Assemble(src); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDisassemble(t *testing.T) {
	cases := []struct {
		progHex string
		want    string
	}{
		{"525393559c", "2 3 ADD 5 NUMEQUAL"},
		{"c101009c6951ce", "TXN OnCompletion FALSE NUMEQUAL VERIFY 1 RETURN"},
		{"c2040182", "TXNA ApplicationArgs 1 SIZE"},
		{"04deadbeef", "0xdeadbeef"},
		{"cc03cd03", "STORE 3 LOAD 3"},
		{"6318000000", "JUMP 24"},
		{"d0020164d101", "INTCBLOCK 2 1 100 INTC 1"},
		{"d20104deadbeefd300", "BYTECBLOCK 1 0xdeadbeef BYTEC 0"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			prog, err := hex.DecodeString(c.progHex)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Disassemble(prog)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}

			// The output assembles back to the same program.
			back, err := Assemble(got)
			if err != nil {
				t.Fatal(err)
			}
			if hex.EncodeToString(back) != c.progHex {
				t.Errorf("round trip: got %x, want %s", back, c.progHex)
			}
		})
	}
}

func TestDisassembleErrors(t *testing.T) {
	cases := []struct {
		name    string
		progHex string
		wantErr error
	}{
		{"unknown opcode", "ff", ErrUnknownOpcode},
		{"truncated immediate", "c1", ErrShortProgram},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, _ := hex.DecodeString(c.progHex)
			if _, err := Disassemble(prog); errors.Root(err) != c.wantErr {
				t.Errorf("got %v, want %v", err, c.wantErr)
			}
		})
	}
}
