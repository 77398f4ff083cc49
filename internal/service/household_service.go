package service

import (
	"context"

	"budget/internal/domain"
	"budget/internal/dto"
)

type HouseholdService interface {
	Create(ctx context.Context, callID domain.AuditCallID, r dto.NameRequest) (*domain.Household, error)
	Rename(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, r dto.NameRequest) (*domain.Household, error)
	Delete(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID) error
	AddMember(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, r dto.AddMemberRequest) (*domain.HouseholdMember, error)
	RemoveMember(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, memberID domain.MemberID) error
}
