package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"furniture-rental-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
	pqUniqueViolation      = "23505"
)

// storageError maps driver errors onto the domain taxonomy. Lock and
// serialization errors become ErrStorageConflict so the caller may retry.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable, pqUniqueViolation:
			return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageConflict, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageFailure, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
