package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type ErrorKind string

const (
	ErrKindMissingField      ErrorKind = "MissingField"
	ErrKindInvalidValue      ErrorKind = "InvalidValue"
	ErrKindDivisionUndefined ErrorKind = "DivisionUndefined"
	ErrKindEmptyInput        ErrorKind = "EmptyInput"
)

// ErrEmptyInput is the only error kind that is fatal at portfolio level: a
// dashboard over zero rows is a data-availability failure, not a formula one.
var ErrEmptyInput = errors.New("empty input: no records to aggregate")

// RecordError describes why a single policy record could not be scored or
// validated. Row is the 1-based data row in the source file.
type RecordError struct {
	PolicyID uuid.UUID
	Row      int
	Kind     ErrorKind
	Field    string
	Reason   string
}

func (e *RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %s (row %d): %s in %q: %s", e.PolicyID, e.Row, e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %s (row %d): %s: %s", e.PolicyID, e.Row, e.Kind, e.Reason)
}

func NewMissingField(id uuid.UUID, row int, field string) *RecordError {
	return &RecordError{
		PolicyID: id,
		Row:      row,
		Kind:     ErrKindMissingField,
		Field:    field,
		Reason:   "required value is missing",
	}
}

func NewInvalidValue(id uuid.UUID, row int, field, reason string) *RecordError {
	return &RecordError{
		PolicyID: id,
		Row:      row,
		Kind:     ErrKindInvalidValue,
		Field:    field,
		Reason:   reason,
	}
}
