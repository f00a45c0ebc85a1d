package service

import (
	"errors"
	"fmt"
	"strings"

	"barstockwise/internal/dto"

	"gorm.io/gorm"
)

// NotFoundError wraps gorm's record-not-found with the resource name, so
// handlers keep matching errors.Is(err, gorm.ErrRecordNotFound) while the
// message stays readable.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }
func (e *NotFoundError) Unwrap() error { return e.Err }

// notFound converts a repository lookup failure into a NotFoundError when the
// record is genuinely absent. Storage failures pass through unchanged.
func notFound(resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, Err: err}
	}
	return err
}

// IngredientNotFoundError is returned when a recipe references an ingredient
// that does not exist or is inactive. Recipe edits pointing at a missing
// ingredient are rejected outright, so hitting this during consumption means
// the ingredient was deactivated after the recipe was saved.
type IngredientNotFoundError struct {
	IngredientID string
	Err          error
}

func (e *IngredientNotFoundError) Error() string {
	return fmt.Sprintf("ingredient %s not found or inactive", e.IngredientID)
}

func (e *IngredientNotFoundError) Unwrap() error { return e.Err }

func ingredientNotFound(id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &IngredientNotFoundError{IngredientID: id, Err: err}
	}
	return err
}

// InsufficientStockError aborts a consumption attempt. Shortfalls lists every
// ingredient that could not be covered, not just the first, so the caller can
// show the complete picture in one round trip.
type InsufficientStockError struct {
	RecipeID   string
	Portions   int
	Shortfalls []dto.MissingIngredient
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		names = append(names, s.Name)
	}
	return fmt.Sprintf("insufficient stock for %d portion(s): %s", e.Portions, strings.Join(names, ", "))
}

// InvalidSubstitutionError marks a substitution rule that cannot be applied
// (non-positive ratio, unit class mismatch, inactive substitute). The resolver
// logs it and skips to the next candidate rather than failing the request.
type InvalidSubstitutionError struct {
	SubstitutionID string
	Reason         string
}

func (e *InvalidSubstitutionError) Error() string {
	return fmt.Sprintf("substitution %s unusable: %s", e.SubstitutionID, e.Reason)
}
