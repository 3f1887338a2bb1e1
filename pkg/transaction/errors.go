package transaction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for a date range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrEmptyInput is returned by aggregates that have no defined value for zero rows.
	ErrEmptyInput = errors.New("empty input")
	// ErrColumnType is matched by every ColumnTypeError.
	ErrColumnType = errors.New("column type mismatch")
	// ErrInvalidOptions is returned by the generator for unusable settings.
	ErrInvalidOptions = errors.New("invalid generator options")
	// ErrInvalidRecord is returned for a record with a negative quantity or price.
	ErrInvalidRecord = errors.New("invalid record")
)

// ColumnTypeError reports an operation that needs a different kind of column
// than the one it was given, or column text that does not parse as that kind.
type ColumnTypeError struct {
	Column Column
	Op     string
	Value  string
}

func (e *ColumnTypeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: column %s cannot hold %q", e.Op, e.Column, e.Value)
	}
	return fmt.Sprintf("%s: column %s is %s", e.Op, e.Column, e.Column.Kind())
}

func (e *ColumnTypeError) Is(target error) bool {
	return target == ErrColumnType
}
