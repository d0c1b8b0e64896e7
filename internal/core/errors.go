package core

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. The typed errors below match them.
var (
	ErrFormat           = errors.New("invalid data format")
	ErrUnresolvableAxes = errors.New("no usable fields")
	ErrDataType         = errors.New("non-numeric value")
	ErrUnsupportedKind  = errors.New("unsupported chart kind")
)

// FormatError is returned when no rows can be derived from the raw input.
type FormatError struct {
	Reason string
	Err    error // underlying parser error, may be nil
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid data format: %s: %v", e.Reason, e.Err)
	}
	return "invalid data format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// UnresolvableAxesError is returned when a table has no rows or no fields to
// plot against.
type UnresolvableAxesError struct {
	Reason string
}

func (e *UnresolvableAxesError) Error() string {
	return "no usable fields: " + e.Reason
}

func (e *UnresolvableAxesError) Is(target error) bool { return target == ErrUnresolvableAxes }

// DataTypeError is returned when the value column holds a cell that cannot be
// plotted as a number.
type DataTypeError struct {
	Field string
	Row   int // 1-based data row
	Value string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("non-numeric value %q in field %q at row %d", e.Value, e.Field, e.Row)
}

func (e *DataTypeError) Is(target error) bool { return target == ErrDataType }

// UnsupportedKindError is returned for chart kinds outside bar, line, pie and
// doughnut.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported chart kind %q (must be bar, line, pie or doughnut)", e.Kind)
}

func (e *UnsupportedKindError) Is(target error) bool { return target == ErrUnsupportedKind }
