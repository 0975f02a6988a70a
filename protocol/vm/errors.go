package vm

import "errors"

var (
	ErrBadValue      = errors.New("bad value")
	ErrLongProgram   = errors.New("program size exceeds maximum")
	ErrShortProgram  = errors.New("unexpected end of program")
	ErrToken         = errors.New("unrecognized token")
	ErrUnknownOpcode = errors.New("unknown opcode")
)
