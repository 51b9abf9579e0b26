package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrRaggedTable      = fmt.Errorf("%w: rows have different lengths", ErrInvalidInput)
	ErrNonNumeric       = fmt.Errorf("%w: non-numeric value", ErrInvalidInput)
	ErrUnsupportedInput = fmt.Errorf("%w: unsupported input type", ErrInvalidInput)

	// Sample errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateSample = errors.New("degenerate sample")
)

// NewNonNumericError reports a value that cannot be used as a number.
func NewNonNumericError(row, col int, value interface{}) error {
	return fmt.Errorf("%w at row %d, column %d: %v", ErrNonNumeric, row+1, col+1, value)
}

// NewRaggedError reports a row whose length differs from the first row.
func NewRaggedError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d values, expected %d", ErrRaggedTable, row+1, got, want)
}

func NewInsufficientDataError(what string, n, need int) error {
	return fmt.Errorf("%w: %s needs at least %d values, got %d", ErrInsufficientData, what, need, n)
}

func NewDegenerateError(what, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDegenerateSample, what, reason)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsSampleError(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrDegenerateSample)
}
