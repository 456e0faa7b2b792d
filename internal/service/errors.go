package service

import "errors"

// Sentinel errors shared across layers for stable status mapping. Foreign
// records are reported as ErrNotFound on purpose: a non-owner must not be
// able to confirm that a record exists.
var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrEmailTaken      = errors.New("already exist")
	ErrFolderContent   = errors.New("a folder doesn't have content")
)

// ValidationError rejects a request before any store access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
