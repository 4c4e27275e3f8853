package services

import (
	"context"
	"database/sql/driver"
	"errors"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
)

// translateWriteError maps a repository write failure onto the service
// error taxonomy. A foreign key failure means the referenced catalog row
// does not exist; a uniqueness failure means an upsert key was bypassed.
func translateWriteError(err error, resource string, id interface{}) error {
	switch {
	case sqlite.IsForeignKeyViolation(err):
		return apperrors.NewNotFoundError(resource, id)
	case sqlite.IsUniqueViolation(err):
		return apperrors.NewConstraintViolationError("duplicate "+resource+" row", err)
	default:
		return translateReadError(err)
	}
}

// translateReadError maps a repository read failure onto the service error
// taxonomy. Cancelled or dead connections surface as transport failures so
// the caller can distinguish them from application errors.
func translateReadError(err error) error {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransportFailureError(err)
	}
	return apperrors.NewInternalError(err)
}
