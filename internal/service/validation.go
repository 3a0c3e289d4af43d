package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/meal-reservation-api/internal/deadline"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/repository"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

// registerValidations installs the domain tags used by the request DTOs.
func registerValidations(v *validator.Validate) *validator.Validate {
	if v == nil {
		v = validator.New()
	}
	mustRegister(v, "meal_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(deadline.DateLayout, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "affiliation", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseAffiliation(fl.Field().String())
		return ok
	})
	mustRegister(v, "visitor_type", func(fl validator.FieldLevel) bool {
		t, ok := models.ParseAffiliation(fl.Field().String())
		return ok && models.ValidVisitorType(t)
	})
	return v
}

// mustRegister installs tag or panics at construction time.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

func invalid(err error, message string) error {
	if err == nil {
		return appErrors.Clone(appErrors.ErrValidation, message)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// storageError maps repository failures onto the public taxonomy.
func storageError(err error, notFound, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record already exists")
	case errors.Is(err, repository.ErrConstraint):
		return appErrors.Wrap(err, appErrors.ErrIntegrity.Code, appErrors.ErrIntegrity.Status, appErrors.ErrIntegrity.Message)
	default:
		return internalError(err, message)
	}
}

// checkRange validates an inclusive yyyy-mm-dd interval.
func checkRange(start, end string) error {
	from, err := time.Parse(deadline.DateLayout, start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start must be formatted as YYYY-MM-DD")
	}
	to, err := time.Parse(deadline.DateLayout, end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end must be formatted as YYYY-MM-DD")
	}
	if to.Before(from) {
		return appErrors.Clone(appErrors.ErrValidation, "end must not precede start")
	}
	return nil
}
