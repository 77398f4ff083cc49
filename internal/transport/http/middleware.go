package http

import (
	"log/slog"
	"net/http"
	"strings"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/netutil"
	obsmw "budget/internal/observability/middleware"
	"budget/internal/service"
	"budget/internal/store"
)

// authenticate requires a valid bearer token and stores its subject.
func authenticate(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				slog.Warn("auth missing bearer", "request_id", reqID)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			userID, err := tokens.Authenticate(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				slog.Warn("auth invalid token", "error", err, "request_id", reqID)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
		})
	}
}

// openAuditCall records an AuditCall for every state-changing request before
// the handler runs, in its own short transaction. Safe methods pass through.
func openAuditCall(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			in := audit.CallInput{
				HTTPMethod: r.Method,
				Route:      r.URL.Path,
				IPAddress:  netutil.ClientIP(r),
				UserAgent:  r.UserAgent(),
				RequestID:  obsmw.RequestIDFromContext(ctx),
			}
			if userID, ok := UserFrom(ctx); ok {
				in.UserID = &userID
			}

			var call *domain.AuditCall
			err := st.WithTx(ctx, func(tx *store.Store) error {
				c, err := audit.CreateCall(ctx, tx, in)
				call = c
				return err
			})
			if err != nil {
				writeError(w, r, err)
				return
			}
			w.Header().Set("X-Audit-Call-ID", call.ID.String())
			next.ServeHTTP(w, r.WithContext(withAuditCall(ctx, call.ID)))
		})
	}
}
