package model

import (
	"errors"
	"fmt"
)

// Structural error reasons. A structural error aborts the whole batch.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrSheetTooShort = errors.New("sheet too short")
)

// StructuralError reports input whose structure cannot be analyzed
type StructuralError struct {
	Reason error  // One of the Err* sentinels above
	Sheet  string // Sheet name, when known
	Column string // Missing column, for ErrMissingColumn
	Detail string
}

func (e *StructuralError) Error() string {
	msg := e.Reason.Error()
	if e.Column != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Column)
	}
	if e.Sheet != "" {
		msg = fmt.Sprintf("%s (sheet %q)", msg, e.Sheet)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StructuralError) Unwrap() error {
	return e.Reason
}

// IsStructural reports whether err is or wraps a StructuralError
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
