// Package readerr defines the error kinds shared by the Blorb and Glulx readers.
//
// Every parse or lookup failure is an *Error carrying a Kind and whatever context
// the failing check had at hand (expected identifier, actual and expected length,
// offending id). Errors compare by kind, so callers test for a category with
// errors.Is:
//
//	if errors.Is(err, readerr.ErrInvalidLength) {
//		// truncated or lying length field
//	}
//
// Use errors.As to reach the details.
package readerr
