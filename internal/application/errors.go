package application

import "errors"

// Sentinel errors forming the service-level taxonomy. Handlers translate
// these into HTTP statuses at the boundary; everything unrecognized becomes
// an internal error there.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("username or email already exists")
)
