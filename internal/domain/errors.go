package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotHouseholdMember = errors.New("not a household member")
	ErrAlreadyMember      = errors.New("user is already a household member")
	ErrLastMember         = errors.New("cannot remove the last household member")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("fund balance would become negative")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrInvalidDate        = errors.New("invalid date")
	ErrAppendOnly         = errors.New("audit records are append-only")
)
