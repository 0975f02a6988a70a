package vm

import "fmt"

// TxnField identifies a field of the running application-call
// transaction, read with the TXN op (or TXNA for array-valued
// fields).
type TxnField uint8

const (
	FieldApplicationID TxnField = iota
	FieldOnCompletion
	FieldNumAppArgs
	FieldGroupIndex
	FieldApplicationArgs // array-valued
)

var txnFieldNames = [...]string{
	FieldApplicationID:   "ApplicationID",
	FieldOnCompletion:    "OnCompletion",
	FieldNumAppArgs:      "NumAppArgs",
	FieldGroupIndex:      "GroupIndex",
	FieldApplicationArgs: "ApplicationArgs",
}

func (f TxnField) String() string {
	if int(f) < len(txnFieldNames) {
		return txnFieldNames[f]
	}
	return fmt.Sprintf("TxnField(%d)", uint8(f))
}

// TxnFieldByName returns the field with the given name.
func TxnFieldByName(name string) (TxnField, bool) {
	for f, n := range txnFieldNames {
		if n == name {
			return TxnField(f), true
		}
	}
	return 0, false
}

// OnCompletion is the declared post-execution behavior of an
// application call. The numbering is part of the wire format.
type OnCompletion uint64

const (
	OnCompletionNoOp OnCompletion = iota
	OnCompletionOptIn
	OnCompletionCloseOut
	OnCompletionClearState
	OnCompletionUpdateApplication
	OnCompletionDeleteApplication
)

var onCompletionNames = [...]string{
	OnCompletionNoOp:              "NoOp",
	OnCompletionOptIn:             "OptIn",
	OnCompletionCloseOut:          "CloseOut",
	OnCompletionClearState:        "ClearState",
	OnCompletionUpdateApplication: "UpdateApplication",
	OnCompletionDeleteApplication: "DeleteApplication",
}

func (oc OnCompletion) String() string {
	if int(oc) < len(onCompletionNames) {
		return onCompletionNames[oc]
	}
	return fmt.Sprintf("OnCompletion(%d)", uint64(oc))
}
