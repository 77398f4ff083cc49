package service

import (
	"context"

	"budget/internal/domain"
)

type AuditService interface {
	// ChangesByCall lists the changes of one of the user's own calls.
	ChangesByCall(ctx context.Context, userID domain.UserID, callID domain.AuditCallID) ([]domain.Change, error)
	// ChangesByEntity lists the history of one entity the user can see: their
	// own account or a row owned by one of their households.
	ChangesByEntity(ctx context.Context, userID domain.UserID, table, key string) ([]domain.Change, error)
}
