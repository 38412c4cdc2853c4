package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Pair enumeration errors: recorded per pair, never abort a batch
	ErrMissingColumn  = errors.New("column not present in dataset")
	ErrNonCategorical = errors.New("column is not categorical")

	// Expected outcomes of sparse real-world data: downgraded to
	// not-applicable results rather than failures
	ErrInsufficientCategories = errors.New("fewer than 2 distinct categories")
	ErrEmptyTable             = errors.New("contingency table has zero grand total")

	// Defensive fault: the selection policy must never route a non-2x2
	// table to Fisher's exact test
	ErrFisherDimension = errors.New("fisher's exact test requires a 2x2 table")

	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewNonCategoricalError(column string, cardinality int) error {
	return fmt.Errorf("%w: %s (cardinality %d)", ErrNonCategorical, column, cardinality)
}

// IsPairEnumerationError reports whether an error is a per-pair column
// failure (absent or non-categorical column) rather than an internal fault
func IsPairEnumerationError(err error) bool {
	return errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrNonCategorical)
}
