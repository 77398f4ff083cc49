package http

import (
	"errors"
	"log/slog"
	"net/http"

	"budget/internal/audit"
	"budget/internal/domain"
	obsmw "budget/internal/observability/middleware"
	"budget/internal/service/impl"
	"budget/internal/store"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, impl.ErrEmptyEmail),
		errors.Is(err, impl.ErrEmptyPassword),
		errors.Is(err, impl.ErrPasswordLength),
		errors.Is(err, impl.ErrInvalidRole),
		errors.Is(err, impl.ErrMissingEntityRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, audit.ErrAuditUserDoesNotExist):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotHouseholdMember):
		return http.StatusForbidden
	case errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrLastMember),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	default:
		// Audit invariant violations land here too: they are server bugs.
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := obsmw.RequestIDFromContext(r.Context())
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "request_id", reqID)
		http.Error(w, "internal error", status)
		return
	}
	slog.Debug("request rejected", "error", err, "status", status, "request_id", reqID)
	http.Error(w, err.Error(), status)
}
