package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes a pipeline failure.
type Kind string

const (
	// KindValidation marks inputs rejected before any decoding starts:
	// unsupported source type, oversized payload, radius out of range.
	KindValidation Kind = "validation"
	// KindDecode marks source payloads that could not be decoded.
	KindDecode Kind = "decode"
	// KindProcessing marks failures while deriving variants (resize, mask).
	KindProcessing Kind = "processing"
	// KindEncode marks container assembly invariant violations. These
	// indicate a bug upstream, not bad user input.
	KindEncode Kind = "encode"
)

// Error is the structured error type used throughout the pipeline.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	b.WriteString(e.Op)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error with the given kind.
func New(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Newf creates an error with a formatted detail message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with kind and operation context.
func Wrap(kind Kind, op, detail string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Cause: cause}
}

// Convenience constructors for the four failure classes.

// Validation creates a caller-input rejection error.
func Validation(op, detail string) *Error {
	return &Error{Kind: KindValidation, Op: op, Detail: detail}
}

// Validationf creates a caller-input rejection error with formatting.
func Validationf(op, format string, args ...any) *Error {
	return Newf(KindValidation, op, format, args...)
}

// Decode creates a source decoding error.
func Decode(op, detail string, cause error) *Error {
	return &Error{Kind: KindDecode, Op: op, Detail: detail, Cause: cause}
}

// Processing creates a variant derivation error.
func Processing(op, detail string, cause error) *Error {
	return &Error{Kind: KindProcessing, Op: op, Detail: detail, Cause: cause}
}

// Encode creates a container assembly error.
func Encode(op, detail string) *Error {
	return &Error{Kind: KindEncode, Op: op, Detail: detail}
}

// KindOf returns the kind of the first *Error in the chain, or "" if
// the chain carries none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
