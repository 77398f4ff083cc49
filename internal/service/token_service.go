package service

import (
	"budget/internal/domain"
	"budget/internal/dto"
)

type TokenService interface {
	Issue(user *domain.User) (*dto.TokenResponse, error)
	// Authenticate returns the user id carried by a bearer token.
	Authenticate(raw string) (domain.UserID, error)
	JWKS() map[string]any
}
