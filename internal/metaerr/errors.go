package metaerr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Code identifies a class of metadata error.
type Code string

const (
	// CodeInvalidArgument marks nil or malformed input to a configuration call.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeIllegalLifecycleState marks a call made in the wrong pipeline state.
	CodeIllegalLifecycleState Code = "ILLEGAL_LIFECYCLE_STATE"

	// CodeIdPropertyNotFound marks an explicit id property missing on its class.
	CodeIdPropertyNotFound Code = "ID_PROPERTY_NOT_FOUND"

	// CodeNoIdPropertyFound marks a class with zero or several identity candidates.
	CodeNoIdPropertyFound Code = "NO_ID_PROPERTY_FOUND"

	// CodePropertyNotResolvable marks a property that cannot be mapped on its class.
	CodePropertyNotResolvable Code = "PROPERTY_NOT_RESOLVABLE"

	// CodeDuplicateRegistration marks a second publication of the same class.
	CodeDuplicateRegistration Code = "DUPLICATE_REGISTRATION"

	// CodeInternal marks a broken pipeline invariant.
	CodeInternal Code = "INTERNAL"
)

// Sentinels for errors.Is. They carry only a code.
var (
	ErrInvalidArgument       = &Error{Code: CodeInvalidArgument}
	ErrIllegalLifecycleState = &Error{Code: CodeIllegalLifecycleState}
	ErrIdPropertyNotFound    = &Error{Code: CodeIdPropertyNotFound}
	ErrNoIdPropertyFound     = &Error{Code: CodeNoIdPropertyFound}
	ErrPropertyNotResolvable = &Error{Code: CodePropertyNotResolvable}
	ErrDuplicateRegistration = &Error{Code: CodeDuplicateRegistration}
	ErrInternal              = &Error{Code: CodeInternal}
)

// Error is the concrete error type of this module.
type Error struct {
	Code     Code
	Class    reflect.Type // offending class, if any
	Property string       // offending property, if any
	Detail   string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	if e.Class != nil {
		fmt.Fprintf(&b, ": class %s", e.Class)
	}
	if e.Property != "" {
		fmt.Fprintf(&b, ", property %q", e.Property)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an error of the given code for a class.
func New(code Code, class reflect.Type, format string, args ...any) *Error {
	return &Error{Code: code, Class: class, Detail: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a malformed configuration argument.
func InvalidArgument(format string, args ...any) *Error {
	return New(CodeInvalidArgument, nil, format, args...)
}

// IllegalState reports a call made in the wrong lifecycle state.
func IllegalState(format string, args ...any) *Error {
	return New(CodeIllegalLifecycleState, nil, format, args...)
}

// Internal wraps err as a broken pipeline invariant.
func Internal(err error, format string, args ...any) *Error {
	e := New(CodeInternal, nil, format, args...)
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
