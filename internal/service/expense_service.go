package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type ExpenseService interface {
	CreateVendor(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Vendor, error)
	RenameVendor(ctx context.Context, callID domain.AuditCallID, id domain.VendorID, r dto.NameRequest) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, callID domain.AuditCallID, id domain.VendorID) error

	CreateExpense(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.ExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, callID domain.AuditCallID, id domain.ExpenseID, p dto.ExpensePatch) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, callID domain.AuditCallID, id domain.ExpenseID) error
}
