package quiz

import "fmt"

// ErrCategoryNotFound indicates the bank has no data source for a category.
// An existing category with an empty difficulty pool is not an error.
type ErrCategoryNotFound struct {
	CategoryID string
}

func (e *ErrCategoryNotFound) Error() string {
	return fmt.Sprintf("category %q not found", e.CategoryID)
}

// ErrInvalidBank indicates bank content that failed parsing or validation.
type ErrInvalidBank struct {
	Source string
	Err    error
}

func (e *ErrInvalidBank) Error() string {
	return fmt.Sprintf("invalid question bank %s: %v", e.Source, e.Err)
}

func (e *ErrInvalidBank) Unwrap() error { return e.Err }
