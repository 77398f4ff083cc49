package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type AuthService interface {
	SignUp(ctx context.Context, callID domain.AuditCallID, r dto.SignUpRequest) (*dto.SignUpResponse, error)
	Login(ctx context.Context, callID domain.AuditCallID, r dto.LoginRequest) (*dto.TokenResponse, error)
	// DeleteAccount soft-deletes the acting user of callID.
	DeleteAccount(ctx context.Context, callID domain.AuditCallID) error
}
