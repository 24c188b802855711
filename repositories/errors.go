package repositories

import "errors"

// Error taxonomy shared by the repositories and the services built on them.
// Controllers map these onto HTTP status codes with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
)
