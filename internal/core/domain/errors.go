package domain

import "errors"

// Sentinel errors translated to HTTP status codes by the API error handler.
// Repository and service code returns these instead of raw driver errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")

	ErrVineyardNotFound = errors.New("vineyard not found")
	ErrHarvestNotFound  = errors.New("harvest not found")
	ErrTankNotFound     = errors.New("tank not found")
	ErrBatchNotFound    = errors.New("batch not found")
	ErrReadingNotFound  = errors.New("reading not found")
)
