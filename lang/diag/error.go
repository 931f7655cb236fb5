package diag

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnrecognizedInput = NewError("unrecognized input")
	ErrSourceHasErrors   = NewError("source contains errors")
	ErrUnknownImport     = NewError("unknown import")
)

// SinkError represents an environmental error with optional structured
// logging attributes.
// It implements both error and slog.LogValuer interfaces.
type SinkError struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new SinkError with a message.
func NewError(msg string) *SinkError {
	return &SinkError{msg: msg}
}

// WrapError wraps a standard error into a SinkError.
func WrapError(err error) *SinkError {
	ee := &SinkError{}
	if errors.As(err, &ee) {
		return ee
	}

	return &SinkError{err: err}
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SinkError) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *SinkError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new SinkError wrapping another error.
func (e *SinkError) Wrap(err error) *SinkError {
	return &SinkError{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new SinkError instance to maintain immutability.
func (e *SinkError) With(attrs ...slog.Attr) *SinkError {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &SinkError{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
