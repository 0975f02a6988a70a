package errors

import (
	"fmt"
	"runtime"
)

const stackTraceSize = 10

// StackFrame represents a single entry in a stack trace.
type StackFrame struct {
	Func string
	File string
	Line int
}

// String satisfies the fmt.Stringer interface.
func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack trace recorded when err was first
// wrapped, or nil if err carries no trace.
func Stack(err error) []StackFrame {
	if werr, ok := err.(wrapperError); ok {
		return werr.stack
	}
	return nil
}

func getStack(skip, size int) []StackFrame {
	var (
		pc    = make([]uintptr, size)
		calls = runtime.Callers(skip+1, pc)
		trace []StackFrame
	)
	for i := 0; i < calls; i++ {
		f := runtime.FuncForPC(pc[i])
		file, line := f.FileLine(pc[i] - 1)
		trace = append(trace, StackFrame{
			Func: f.Name(),
			File: file,
			Line: line,
		})
	}
	return trace
}
