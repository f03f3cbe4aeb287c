package utils

import "errors"

// Error categories. Handlers match on these with errors.Is; anything that
// matches none of them is a server fault.
var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicate       = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrState           = errors.New("invalid state")
	ErrRateLimited     = errors.New("rate limited")
)

// Concrete failures with their client-facing messages.
var (
	ErrMissingFields          = NewError(ErrValidation, "Username, password and email are required fields.")
	ErrInvalidPasswordLength  = NewError(ErrValidation, "Password needs to be between 6 and 128 characters long.")
	ErrMissingCredentials     = NewError(ErrValidation, "Identifier and password are required fields.")
	ErrAdminRegistrationOff   = NewError(ErrValidation, "Admin accounts cannot be registered.")
	ErrOldPasswordRequired    = NewError(ErrValidation, "Old password is required to update information.")
	ErrOldPasswordIncorrect   = NewError(ErrValidation, "Old password is incorrect.")
	ErrInvalidBirthday        = NewError(ErrValidation, "Birthday must be a date in YYYY-MM-DD format.")
	ErrInvalidUserID          = NewError(ErrValidation, "Invalid user ID.")
	ErrInvalidRole            = NewError(ErrValidation, "Role must be either user or admin.")
	ErrInvalidPoints          = NewError(ErrValidation, "Points must be an integer.")
	ErrPointsOutOfRange       = NewError(ErrValidation, "Points adjustment is out of range.")
	ErrDuplicateUsername      = NewError(ErrDuplicate, "This username already exists.")
	ErrDuplicateEmail         = NewError(ErrDuplicate, "This email is already in use.")
	ErrInvalidCredentials     = NewError(ErrValidation, "Invalid credentials.")
	ErrInsufficientPermission = NewError(ErrForbidden, "Sorry, you don't have the correct permissions for that.")
	ErrQROnlyForUsers         = NewError(ErrForbidden, "QR code generation is for users only.")
	ErrTokenSubjectMismatch   = NewError(ErrForbidden, "Token does not belong to this user.")
	ErrAccountNotFound        = NewError(ErrNotFound, "User not found.")
	ErrMenuNotFound           = NewError(ErrNotFound, "No menu found.")
	ErrNegativeBalance        = NewError(ErrState, "Points cannot be negative.")
	ErrNoFile                 = NewError(ErrValidation, "No file uploaded.")
	ErrWrongMimeType          = NewError(ErrValidation, "Only PNG files are allowed.")
	ErrFileTooLarge           = NewError(ErrValidation, "Uploaded file is too large.")
	ErrMissingUploader        = NewError(ErrValidation, "User information is missing.")
)

type kindError struct {
	kind error
	msg  string
}

// NewError builds an error whose message is safe to show to clients and
// which matches kind under errors.Is.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
