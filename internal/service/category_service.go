package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Category, error)
	RenameCategory(ctx context.Context, callID domain.AuditCallID, id domain.CategoryID, r dto.NameRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, callID domain.AuditCallID, id domain.CategoryID) error

	CreateSubcategory(ctx context.Context, callID domain.AuditCallID, categoryID domain.CategoryID, r dto.NameRequest) (*domain.Subcategory, error)
	RenameSubcategory(ctx context.Context, callID domain.AuditCallID, id domain.SubcategoryID, r dto.NameRequest) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, callID domain.AuditCallID, id domain.SubcategoryID) error
}
