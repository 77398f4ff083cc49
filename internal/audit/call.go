package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budget/internal/domain"
	"budget/internal/netutil"
	"budget/internal/observability/metrics"
	"budget/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallInput describes the inbound request an AuditCall stands for.
type CallInput struct {
	UserID     *domain.UserID // nil for pre-authentication endpoints
	HTTPMethod string
	Route      string
	IPAddress  string
	UserAgent  string
	RequestID  string
}

// CreateCall persists a new AuditCall. A set UserID must belong to a live
// user.
func CreateCall(ctx context.Context, st *store.Store, in CallInput) (*domain.AuditCall, error) {
	if in.UserID != nil {
		if _, err := st.Users().GetByID(ctx, *in.UserID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrAuditUserDoesNotExist, *in.UserID)
			}
			return nil, err
		}
	}
	call := &domain.AuditCall{
		ID:         uuid.New(),
		UserID:     in.UserID,
		HTTPMethod: in.HTTPMethod,
		Route:      in.Route,
		IPAddress:  in.IPAddress,
		UserAgent:  netutil.TruncateUserAgent(in.UserAgent),
		RequestID:  in.RequestID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := st.DB.WithContext(ctx).Create(call).Error; err != nil {
		return nil, err
	}
	metrics.AuditCallsCreatedTotal.WithLabelValues(in.HTTPMethod).Inc()
	return call, nil
}

// ResolveCall loads the AuditCall with the given id.
func ResolveCall(ctx context.Context, st *store.Store, id domain.AuditCallID) (*domain.AuditCall, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty id", ErrMissingAuditCall)
	}
	var call domain.AuditCall
	if err := st.DB.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAuditCall, id)
		}
		return nil, err
	}
	return &call, nil
}

// ResolveActingUser returns the live user behind call, or nil for a
// pre-authentication call. Mutating services call it before every write
// because the call may predate a concurrent account deletion.
func ResolveActingUser(ctx context.Context, st *store.Store, call *domain.AuditCall) (*domain.User, error) {
	if call == nil {
		return nil, fmt.Errorf("%w: nil call", ErrMissingAuditCall)
	}
	if call.UserID == nil {
		return nil, nil
	}
	user, err := st.Users().GetByID(ctx, *call.UserID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAuditUserDoesNotExist, *call.UserID)
		}
		return nil, err
	}
	return user, nil
}
