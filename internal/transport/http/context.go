package http

import (
	"context"

	"budget/internal/domain"

	"github.com/google/uuid"
)

type userKey struct{}
type auditCallKey struct{}

func withUser(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserFrom returns the authenticated user id, if any.
func UserFrom(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(userKey{}).(domain.UserID)
	return id, ok && id != uuid.Nil
}

func withAuditCall(ctx context.Context, id domain.AuditCallID) context.Context {
	return context.WithValue(ctx, auditCallKey{}, id)
}

// AuditCallFrom returns the audit call opened for the current request.
// uuid.Nil means none was opened, which the tracker rejects.
func AuditCallFrom(ctx context.Context) domain.AuditCallID {
	id, _ := ctx.Value(auditCallKey{}).(domain.AuditCallID)
	return id
}
