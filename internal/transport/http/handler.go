package http

import (
	"context"
	"net/http"

	"budget/internal/domain"
	"budget/internal/dto"

	"github.com/google/uuid"
)

type handler struct {
	Deps
}

// withBody serves the common "{id} in path, JSON in body" mutation shape.
func withBody[Req, Res any](status int, fn func(context.Context, domain.AuditCallID, uuid.UUID, Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req Req
		if !decode(w, r, &req) {
			return
		}
		res, err := fn(r.Context(), AuditCallFrom(r.Context()), id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, res)
	}
}

func deleteByID(fn func(context.Context, domain.AuditCallID, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := fn(r.Context(), AuditCallFrom(r.Context()), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Auth.SignUp(r.Context(), AuditCallFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Auth.Login(r.Context(), AuditCallFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.DeleteAccount(r.Context(), AuditCallFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) createHousehold(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if !decode(w, r, &req) {
		return
	}
	hh, err := h.Households.Create(r.Context(), AuditCallFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hh)
}

func (h *handler) removeMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "memberID")
	if !ok {
		return
	}
	if err := h.Households.RemoveMember(r.Context(), AuditCallFrom(r.Context()), id, memberID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deposit(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.DepositRequest
	if !decode(w, r, &req) {
		return
	}
	dep, fund, err := h.Funds.Deposit(r.Context(), AuditCallFrom(r.Context()), fundID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Deposit *domain.Deposit `json:"deposit"`
		Fund    *domain.Fund    `json:"fund"`
	}{dep, fund})
}

func (h *handler) changesByCall(w http.ResponseWriter, r *http.Request) {
	callID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, _ := UserFrom(r.Context())
	changes, err := h.Audit.ChangesByCall(r.Context(), userID, callID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func (h *handler) changesByEntity(w http.ResponseWriter, r *http.Request) {
	table, key := r.URL.Query().Get("table"), r.URL.Query().Get("key")
	if table == "" || key == "" {
		http.Error(w, "table and key are required", http.StatusBadRequest)
		return
	}
	userID, _ := UserFrom(r.Context())
	changes, err := h.Audit.ChangesByEntity(r.Context(), userID, table, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
