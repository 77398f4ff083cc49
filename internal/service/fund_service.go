package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type FundService interface {
	CreateFund(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Fund, error)
	RenameFund(ctx context.Context, callID domain.AuditCallID, id domain.FundID, r dto.NameRequest) (*domain.Fund, error)
	DeleteFund(ctx context.Context, callID domain.AuditCallID, id domain.FundID) error

	// Deposit records a deposit and credits the fund balance under one call.
	Deposit(ctx context.Context, callID domain.AuditCallID, fundID domain.FundID, r dto.DepositRequest) (*domain.Deposit, *domain.Fund, error)
	// DeleteDeposit removes a deposit and debits the fund balance.
	DeleteDeposit(ctx context.Context, callID domain.AuditCallID, id domain.DepositID) error
}
