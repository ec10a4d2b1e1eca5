// internal/store/errors.go
package store

import "errors"

var (
	// ErrKeyNotFound is returned by adapters when a key has never been written.
	ErrKeyNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by adapters when a write does not fit the
	// backend's storage budget.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrStorageFailure is returned by the collection layer when a value could
	// not be persisted even after degrading to a truncated payload.
	ErrStorageFailure = errors.New("storage failure")
)
