// internal/services/errors.go
package services

import "errors"

// Error taxonomy for marketplace operations. Local validation errors are
// terminal and surfaced immediately; transaction-level errors abort the whole
// operation with no partial commit.
var (
	ErrDuplicateRegistration = errors.New("wallet address is already registered as an artisan")
	ErrArtisanNotRegistered  = errors.New("wallet address is not a registered artisan")
	ErrNotFound              = errors.New("product not found")
	ErrUnauthorized          = errors.New("wallet is not authorized for this product")
	ErrNotAvailable          = errors.New("product not available or already sold")
	ErrNoHistory             = errors.New("no provenance history for product")
	ErrUserRejected          = errors.New("transaction rejected by wallet")
	ErrProvider              = errors.New("wallet provider error")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrReverted              = errors.New("contract call reverted")
)
