package repository

import (
	"errors"
	"fmt"

	"github.com/noah-isme/meal-reservation-api/pkg/database"
)

var (
	// ErrDuplicate reports a unique key collision.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConstraint reports any other storage constraint failure.
	ErrConstraint = errors.New("constraint violation")
)

// classify wraps err with op and tags constraint failures so services can
// map them without knowing the driver.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	case database.IsConstraintViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrConstraint, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
