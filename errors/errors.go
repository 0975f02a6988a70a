// Package errors implements a basic error wrapping scheme.
// Wrapping an error attaches a context message and a stack trace
// while preserving the original error for comparison with Root.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// wrapperError carries a root error plus the context
// accumulated by calls to Wrap and WithDetail.
type wrapperError struct {
	msg    string
	detail []string
	stack  []StackFrame
	root   error
}

func (e wrapperError) Error() string {
	return e.msg
}

// Root returns the original error wrapped by one or more calls to
// Wrap. If e does not wrap other errors, it is returned as-is.
func Root(e error) error {
	if werr, ok := e.(wrapperError); ok {
		return werr.root
	}
	return e
}

// wrap does the work of Wrap and WithDetail. The stackSkip argument
// is the number of stack frames to ascend beyond the caller of wrap
// when recording a trace.
func wrap(err error, msg string, stackSkip int) error {
	if err == nil {
		return nil
	}
	werr, ok := err.(wrapperError)
	if !ok {
		werr.root = err
		werr.msg = err.Error()
		werr.stack = getStack(stackSkip+2, stackTraceSize)
	}
	if msg != "" {
		werr.msg = msg + ": " + werr.msg
	}
	return werr
}

// Wrap adds a context message and stack trace to err and returns a
// new error with the new context. Arguments are handled as in
// fmt.Print. Use Root to recover the original error. Wrap returns
// nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	return wrap(err, fmt.Sprint(a...), 1)
}

// Wrapf is like Wrap, but arguments are handled as in fmt.Printf.
func Wrapf(err error, format string, a ...interface{}) error {
	return wrap(err, fmt.Sprintf(format, a...), 1)
}

// WithDetail returns a new error that wraps err with text as
// additional context. Detail returns the given text when called on
// the new error value.
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail, text)
	return e1
}

// WithDetailf is like WithDetail, except it formats the detail
// message as in fmt.Printf.
func WithDetailf(err error, format string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, v...)
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail, text)
	return e1
}

// Detail returns the detail messages contained in err, if any,
// joined by "; ".
func Detail(err error) string {
	werr, _ := err.(wrapperError)
	return strings.Join(werr.detail, "; ")
}
