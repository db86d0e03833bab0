package entities

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNumItems    = errors.New("invalid number of items")
	ErrNegativeBudget     = errors.New("negative budget")
	ErrInvalidComposition = errors.New("invalid composition target")
	ErrInvalidIterations  = errors.New("invalid iteration limit")
	ErrEmptyRecipe        = errors.New("recipe has no ingredient items")
)

// InvariantViolation is a precondition failure that aborts planning before
// any selection work begins
type InvariantViolation struct {
	Err     error
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

func (e *InvariantViolation) Unwrap() error {
	return e.Err
}

func newInvariantViolation(err error, format string, args ...interface{}) *InvariantViolation {
	return &InvariantViolation{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewEmptyRecipeViolation reports candidate recipes without ingredient items
// that would be needed to reach the requested number of recipes
func NewEmptyRecipeViolation(ids []RecipeID, numItems, usable int) *InvariantViolation {
	return newInvariantViolation(
		ErrEmptyRecipe,
		"recipes %v have no ingredient items; only %d of %d requested recipes can be planned",
		ids,
		usable,
		numItems,
	)
}
