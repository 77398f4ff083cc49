package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	obsmw "budget/internal/observability/middleware"
	"budget/internal/service"
	"budget/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Store      *store.Store
	Auth       service.AuthService
	Tokens     service.TokenService
	Households service.HouseholdService
	Categories service.CategoryService
	Budgets    service.BudgetService
	Expenses   service.ExpenseService
	Funds      service.FundService
	Audit      service.AuditService

	CORSOrigins    []string
	RateLimit      int // requests per minute per IP, 0 disables
	RequestTimeout time.Duration
}

func NewRouter(d Deps) chi.Router {
	h := &handler{d}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(obsmw.WithMetrics)
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}
	if d.RateLimit > 0 {
		r.Use(httprate.LimitByIP(d.RateLimit, time.Minute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(d.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Audit-Call-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/jwks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Tokens.JWKS())
	})

	// Sign-up and login are audited with no acting user.
	r.Group(func(pub chi.Router) {
		pub.Use(openAuditCall(d.Store))
		pub.Post("/v1/users", h.signUp)
		pub.Post("/v1/sessions", h.login)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(authenticate(d.Tokens))
		pr.Use(openAuditCall(d.Store))

		pr.Delete("/v1/users/me", h.deleteAccount)

		pr.Post("/v1/households", h.createHousehold)
		pr.Patch("/v1/households/{id}", withBody(http.StatusOK, d.Households.Rename))
		pr.Delete("/v1/households/{id}", deleteByID(d.Households.Delete))
		pr.Post("/v1/households/{id}/members", withBody(http.StatusCreated, d.Households.AddMember))
		pr.Delete("/v1/households/{id}/members/{memberID}", h.removeMember)

		pr.Post("/v1/households/{id}/categories", withBody(http.StatusCreated, d.Categories.CreateCategory))
		pr.Patch("/v1/categories/{id}", withBody(http.StatusOK, d.Categories.RenameCategory))
		pr.Delete("/v1/categories/{id}", deleteByID(d.Categories.DeleteCategory))
		pr.Post("/v1/categories/{id}/subcategories", withBody(http.StatusCreated, d.Categories.CreateSubcategory))
		pr.Patch("/v1/subcategories/{id}", withBody(http.StatusOK, d.Categories.RenameSubcategory))
		pr.Delete("/v1/subcategories/{id}", deleteByID(d.Categories.DeleteSubcategory))

		pr.Post("/v1/subcategories/{id}/budgets", withBody(http.StatusCreated, d.Budgets.Create))
		pr.Patch("/v1/budgets/{id}", withBody(http.StatusOK, d.Budgets.Update))
		pr.Delete("/v1/budgets/{id}", deleteByID(d.Budgets.Delete))

		pr.Post("/v1/households/{id}/vendors", withBody(http.StatusCreated, d.Expenses.CreateVendor))
		pr.Patch("/v1/vendors/{id}", withBody(http.StatusOK, d.Expenses.RenameVendor))
		pr.Delete("/v1/vendors/{id}", deleteByID(d.Expenses.DeleteVendor))
		pr.Post("/v1/households/{id}/expenses", withBody(http.StatusCreated, d.Expenses.CreateExpense))
		pr.Patch("/v1/expenses/{id}", withBody(http.StatusOK, d.Expenses.UpdateExpense))
		pr.Delete("/v1/expenses/{id}", deleteByID(d.Expenses.DeleteExpense))

		pr.Post("/v1/households/{id}/funds", withBody(http.StatusCreated, d.Funds.CreateFund))
		pr.Patch("/v1/funds/{id}", withBody(http.StatusOK, d.Funds.RenameFund))
		pr.Delete("/v1/funds/{id}", deleteByID(d.Funds.DeleteFund))
		pr.Post("/v1/funds/{id}/deposits", h.deposit)
		pr.Delete("/v1/deposits/{id}", deleteByID(d.Funds.DeleteDeposit))

		pr.Get("/v1/audit-calls/{id}/changes", h.changesByCall)
		pr.Get("/v1/changes", h.changesByEntity)
	})

	return r
}

func originsIfSet(in []string) []string {
	out := []string{}
	for _, o := range in {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
