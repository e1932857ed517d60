// Package server exposes the HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/penny-for-your-thoughts/internal/auth"
)

// Store is the full storage surface the API needs. *storage.SQLiteStorage
// satisfies it.
type Store interface {
	UserStore
	CategoryStore
	ExpenseStore
	IncomeStore
	BudgetStore
}

// RouterDeps bundles everything NewRouter wires together.
type RouterDeps struct {
	Store       Store
	Verifier    auth.Verifier
	Assistant   TurnRunner
	Receipts    ReceiptProcessor
	RateLimiter *RateLimiter
	Registry    *prometheus.Registry
	Logger      *slog.Logger
}

// NewRouter builds the chi router with the full middleware chain and all
// API routes.
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var collector *Collector
	if deps.Registry != nil {
		collector = NewCollector(deps.Registry)
	}

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))
	if collector != nil {
		r.Use(measureRequests(collector))
	}

	userHandler := NewUserHandler(deps.Store, deps.Verifier)
	categoryHandler := NewCategoryHandler(deps.Store)
	expenseHandler := NewExpenseHandler(deps.Store)
	incomeHandler := NewIncomeHandler(deps.Store)
	budgetHandler := NewBudgetHandler(deps.Store)
	assistantHandler := NewAssistantHandler(deps.Assistant, deps.Receipts, deps.RateLimiter, collector)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", MetricsHandler(deps.Registry))
	}

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/verify", userHandler.Verify)
		r.Get("/", userHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Delete("/", userHandler.Delete)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", categoryHandler.Create)
		r.Get("/", categoryHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", categoryHandler.Get)
			r.Put("/", categoryHandler.Update)
			r.Delete("/", categoryHandler.Delete)
		})
	})

	r.Route("/api/expenses", func(r chi.Router) {
		r.Post("/", expenseHandler.Create)
		r.Get("/category/{categoryId}", expenseHandler.ListByCategory)
		r.Route("/user/{userId}", func(r chi.Router) {
			r.Get("/", expenseHandler.ListByUser)
			r.Get("/chart/categories", expenseHandler.CategoryChart)
			r.Get("/chart/monthly", expenseHandler.MonthlyChart)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", expenseHandler.Get)
			r.Put("/", expenseHandler.Update)
			r.Delete("/", expenseHandler.Delete)
		})
	})

	r.Route("/api/incomes", func(r chi.Router) {
		r.Post("/", incomeHandler.Create)
		r.Get("/user/{userId}", incomeHandler.ListByUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", incomeHandler.Get)
			r.Put("/", incomeHandler.Update)
			r.Delete("/", incomeHandler.Delete)
		})
	})

	r.Route("/api/budgets", func(r chi.Router) {
		r.Post("/", budgetHandler.Create)
		r.Get("/user/{userId}", budgetHandler.ListByUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", budgetHandler.Get)
			r.Put("/", budgetHandler.Update)
			r.Delete("/", budgetHandler.Delete)
		})
	})

	r.Route("/api/assistant", func(r chi.Router) {
		r.Post("/income", assistantHandler.Income)
		r.Post("/receipt", assistantHandler.Receipt)
	})

	return r
}
