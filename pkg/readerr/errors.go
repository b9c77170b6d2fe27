package readerr

import (
	"fmt"
	"strings"
)

// Kind categorizes a read error.
type Kind string

const (
	KindUnexpectedIdentifier Kind = "unexpected_starting_identifier"
	KindInvalidLength        Kind = "invalid_length"
	KindUnknownIdentifier    Kind = "unknown_identifier"
	KindDuplicateIdentifier  Kind = "duplicate_identifier"
	KindInvalidConversion    Kind = "invalid_conversion"
	KindUnknownFileType      Kind = "unknown_file_type"
	KindUnsupported          Kind = "unsupported_operation"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrUnexpectedIdentifier = &Error{Kind: KindUnexpectedIdentifier}
	ErrInvalidLength        = &Error{Kind: KindInvalidLength}
	ErrUnknownIdentifier    = &Error{Kind: KindUnknownIdentifier}
	ErrDuplicateIdentifier  = &Error{Kind: KindDuplicateIdentifier}
	ErrInvalidConversion    = &Error{Kind: KindInvalidConversion}
	ErrUnknownFileType      = &Error{Kind: KindUnknownFileType}
	ErrUnsupported          = &Error{Kind: KindUnsupported}
)

// Error is the structured error returned by the format readers.
type Error struct {
	Cause error
	Kind  Kind

	// Expected is the identifier the parser was looking for
	// (KindUnexpectedIdentifier).
	Expected string

	// Actual and Want are byte counts (KindInvalidLength).
	Actual int
	Want   int

	// ID is the identifier that failed a lookup (KindUnknownIdentifier,
	// KindDuplicateIdentifier).
	ID int64

	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindUnexpectedIdentifier:
		if e.Expected != "" {
			fmt.Fprintf(&b, ": expected %q", e.Expected)
		}
	case KindInvalidLength:
		fmt.Fprintf(&b, ": actual length %d, expected %d", e.Actual, e.Want)
	case KindUnknownIdentifier, KindDuplicateIdentifier:
		fmt.Fprintf(&b, ": %d", e.ID)
	}

	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteByte(')')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
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

// UnexpectedIdentifier reports a magic or tag mismatch.
func UnexpectedIdentifier(expected, detail string) *Error {
	return &Error{Kind: KindUnexpectedIdentifier, Expected: expected, Detail: detail}
}

// InvalidLength reports a declared length that does not fit the available bytes.
func InvalidLength(actual, want int, detail string) *Error {
	return &Error{Kind: KindInvalidLength, Actual: actual, Want: want, Detail: detail}
}

// UnknownIdentifier reports a lookup that found no match.
func UnknownIdentifier(id int64, detail string) *Error {
	return &Error{Kind: KindUnknownIdentifier, ID: id, Detail: detail}
}

// DuplicateIdentifier reports an id recorded twice within one category.
func DuplicateIdentifier(id int64, detail string) *Error {
	return &Error{Kind: KindDuplicateIdentifier, ID: id, Detail: detail}
}

// InvalidConversion reports bytes that cannot be read as the requested value.
func InvalidConversion(detail string) *Error {
	return &Error{Kind: KindInvalidConversion, Detail: detail}
}

// UnknownFileType reports a buffer that matched no known format.
// cause may carry the individual parse failures.
func UnknownFileType(cause error) *Error {
	return &Error{Kind: KindUnknownFileType, Cause: cause}
}

// Unsupported reports a well-formed request the readers do not handle.
func Unsupported(detail string) *Error {
	return &Error{Kind: KindUnsupported, Detail: detail}
}
