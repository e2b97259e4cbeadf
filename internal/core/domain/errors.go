package domain

import "errors"

// Error kinds. Callers classify with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("resource conflict")
	ErrNotFound           = errors.New("resource not found")
	ErrAuthentication     = errors.New("identity provider rejected the request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProvisioning       = errors.New("identity provider provisioning failed")
	ErrForbidden          = errors.New("access forbidden")
)

var (
	ErrUsernameTaken = newKindError(ErrConflict, "Username already exists")
	ErrEmailTaken    = newKindError(ErrConflict, "Email already exists")
	ErrUserNotFound  = newKindError(ErrNotFound, "User not found")
)

// kindError carries a client-facing message while still matching its kind.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewValidationError returns an ErrValidation with a client-facing message.
func NewValidationError(msg string) error {
	return newKindError(ErrValidation, msg)
}
