package store

import (
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
)

// The store surfaces three failure kinds, all as coded domain errors so
// callers can distinguish them with errors.Is:
//
//   - apperrors.ErrNotFound: the key or natural key does not exist
//   - apperrors.ErrAlreadyExists: a primary key or unique index collision
//   - apperrors.ErrStorage: Badger itself failed, never retried here
var (
	ErrNotFound      = apperrors.ErrNotFound
	ErrAlreadyExists = apperrors.ErrAlreadyExists
	ErrStorage       = apperrors.ErrStorage
)

// storageErr wraps an unexpected Badger failure as a distinguishable
// storage error.
func storageErr(op string, cause error) error {
	return apperrors.Storage(op, cause)
}
