// Package errs holds the error kinds shared by the table engine and the
// annotation helpers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed arguments: duplicate keys, a bad
	// expansion factor, non-finite bounds.
	ErrValidation = errors.New("validation error")

	// ErrOutOfRange marks an index that does not address a current row.
	ErrOutOfRange = errors.New("out of range")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func OutOfRangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
