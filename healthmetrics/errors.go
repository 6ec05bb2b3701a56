// Package healthmetrics holds the pure computations behind the HealthAI API:
// calorie targets from biometrics, meal reconciliation between user input and
// an AI estimate, and the trend/rollup series shown on the progress dashboard.
//
// Nothing here performs I/O or reads the clock. Every function either returns
// a value or an *InvalidInputError naming the offending field or sample.
package healthmetrics

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a bad biometric value, a non-numeric field, or a
// malformed date. Index is the offending sample index, or -1 when the error
// is scoped to a field rather than a series element.
type InvalidInputError struct {
	Field  string
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid input: sample %d: %s: %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func fieldError(field, reason string) error {
	return &InvalidInputError{Field: field, Index: -1, Reason: reason}
}

func sampleError(index int, field, reason string) error {
	return &InvalidInputError{Field: field, Index: index, Reason: reason}
}
