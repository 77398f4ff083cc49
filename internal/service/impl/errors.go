package impl

import "errors"

var (
	ErrEmptyPassword    = errors.New("empty password")
	ErrEmptyEmail       = errors.New("empty email")
	ErrPasswordLength   = errors.New("password too short")
	ErrInvalidRole      = errors.New("invalid member role")
	ErrMissingEntityRef = errors.New("table and key are required")
)

const minPasswordLength = 8
