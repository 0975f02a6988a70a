package vm

import "testing"

func TestTxnFieldNames(t *testing.T) {
	for f := FieldApplicationID; f <= FieldApplicationArgs; f++ {
		name := f.String()
		got, ok := TxnFieldByName(name)
		if !ok || got != f {
			t.Errorf("field %s does not round trip", name)
		}
	}
	if _, ok := TxnFieldByName("NotAField"); ok {
		t.Error("unknown field name should not resolve")
	}
}

func TestOnCompletionNumbering(t *testing.T) {
	// The numbering is part of the wire format.
	cases := []struct {
		oc   OnCompletion
		num  uint64
		name string
	}{
		{OnCompletionNoOp, 0, "NoOp"},
		{OnCompletionOptIn, 1, "OptIn"},
		{OnCompletionCloseOut, 2, "CloseOut"},
		{OnCompletionClearState, 3, "ClearState"},
		{OnCompletionUpdateApplication, 4, "UpdateApplication"},
		{OnCompletionDeleteApplication, 5, "DeleteApplication"},
	}
	for _, c := range cases {
		if uint64(c.oc) != c.num {
			t.Errorf("%s = %d, want %d", c.name, uint64(c.oc), c.num)
		}
		if c.oc.String() != c.name {
			t.Errorf("got name %s, want %s", c.oc.String(), c.name)
		}
	}
}
