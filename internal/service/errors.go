package service

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Validation taxonomy. Every add-action failure wraps one of these; the
// action aborts without a partial write.
var (
	ErrMissingRequiredField    = eris.New("missing required field")
	ErrConditionalFieldMissing = eris.New("conditional field missing")
	ErrInvalidNumericRange     = eris.New("invalid numeric range")
)

// ErrNotFound is returned when an id does not resolve in its collection.
var ErrNotFound = eris.New("record not found")

// PriceDeviationError is the confirmable warning raised when a new offer's
// price strays more than the threshold from the suggested median. It is
// not a hard rejection: retrying with AcceptDeviation set proceeds.
type PriceDeviationError struct {
	Proposed float64
	Median   float64
	Delta    float64 // relative, e.g. 0.05 for 5%
}

func (e *PriceDeviationError) Error() string {
	return fmt.Sprintf("price %.2f deviates %.1f%% from the 30-day median %.2f",
		e.Proposed, e.Delta*100, e.Median)
}
