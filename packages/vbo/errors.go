package vbo

import (
	"errors"
	"fmt"
)

type Error string

func (e Error) Error() string {
	return string(e)
}

// Protocol violations. The call that produced one of these did nothing.
const (
	ErrNotCollecting       = Error("vertex data outside begin/end")
	ErrAlreadyCollecting   = Error("begin called while already collecting")
	ErrEndWithoutBegin     = Error("end called without begin")
	ErrInvalidPrimitive    = Error("invalid primitive kind")
	ErrMismatchedPrimitive = Error("mismatched primitive")
	ErrCannotContinue      = Error("primitive cannot be continued in a compiled buffer")
	ErrRenderWhileOpen     = Error("render called between begin and end")
	ErrMatrixWhileOpen     = Error("matrix operation not allowed between begin and end")
	ErrInvalidMatrixMode   = Error("invalid matrix mode")
	ErrStackUnderflow      = Error("matrix stack underflow")
	ErrStackOverflow       = Error("matrix stack overflow")
	ErrUnbalancedStack     = Error("matrix stack not balanced")
	ErrInvalidAttribute    = Error("invalid attribute index")
	ErrUniformTypeMismatch = Error("uniform type mismatch")
	ErrInvalidUniform      = Error("invalid uniform")
	ErrInvalidClipPlane    = Error("invalid clip plane index")
	ErrOutOfMemory         = Error("vertex storage exhausted")
	ErrDestroyed           = Error("buffer already destroyed")
	ErrShaderCompile       = Error("shader compile error")
	ErrShaderLink          = Error("shader link error")
)

// report is the single-read error and warning channel of a Context.
type report struct {
	err  error
	warn string
}

func (c *Context) fail(err error) {
	c.report.err = err
	Logger().Warn("vbo: " + err.Error())
}

func (c *Context) failf(err error, format string, args ...any) {
	c.fail(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

func (c *Context) warnf(format string, args ...any) {
	c.report.warn = fmt.Sprintf(format, args...)
	Logger().Warn("vbo: " + c.report.warn)
}

// fatal is used when rendering cannot proceed at all.
func (c *Context) fatal(err error) {
	Logger().Error("vbo: fatal", "err", err)
	panic(err)
}

// LastError returns the most recent error and clears it, so every error is
// delivered once. It returns nil when nothing failed since the last call.
func (c *Context) LastError() error {
	err := c.report.err
	c.report.err = nil
	return err
}

// LastWarning returns the most recent warning and clears it.
func (c *Context) LastWarning() string {
	w := c.report.warn
	c.report.warn = ""
	return w
}

// IsProtocolError reports whether err is a misuse of the begin/end or matrix
// protocol, as opposed to a resource or shader failure.
func IsProtocolError(err error) bool {
	for _, e := range []error{ErrNotCollecting, ErrAlreadyCollecting, ErrEndWithoutBegin,
		ErrInvalidPrimitive, ErrMismatchedPrimitive, ErrCannotContinue, ErrRenderWhileOpen,
		ErrMatrixWhileOpen, ErrInvalidMatrixMode, ErrStackUnderflow, ErrStackOverflow,
		ErrUnbalancedStack, ErrInvalidAttribute, ErrUniformTypeMismatch, ErrInvalidUniform,
		ErrInvalidClipPlane, ErrDestroyed} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
