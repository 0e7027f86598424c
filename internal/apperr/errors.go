package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidPath     = errors.New("invalid path")
)
