package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type BudgetService interface {
	Create(ctx context.Context, callID domain.AuditCallID, subcategoryID domain.SubcategoryID, r dto.BudgetRequest) (*domain.Budget, error)
	Update(ctx context.Context, callID domain.AuditCallID, id domain.BudgetID, p dto.BudgetPatch) (*domain.Budget, error)
	Delete(ctx context.Context, callID domain.AuditCallID, id domain.BudgetID) error
}
