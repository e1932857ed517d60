package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// BudgetStore is the storage surface the budget handlers need.
type BudgetStore interface {
	CreateBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error)
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	GetBudgetsByUser(ctx context.Context, userID string) ([]model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// BudgetHandler serves the /api/budgets routes.
type BudgetHandler struct {
	store BudgetStore
}

// NewBudgetHandler creates a BudgetHandler.
func NewBudgetHandler(store BudgetStore) *BudgetHandler {
	return &BudgetHandler{store: store}
}

type budgetRequest struct {
	UserID    string          `json:"userId"`
	StartDate string          `json:"startBudgetDate"`
	EndDate   string          `json:"endBudgetDate"`
	Amount    decimal.Decimal `json:"amount"`
}

func (req *budgetRequest) toModel() (*model.Budget, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Budget{
		UserID:    req.UserID,
		Amount:    req.Amount,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// Create records a budget.
// POST /api/budgets
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := req.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "dates must be yyyy-mm-dd")
		return
	}

	created, err := h.store.CreateBudget(r.Context(), budget)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Get returns one budget by ID.
// GET /api/budgets/{id}
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	budget, err := h.store.GetBudget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, budget)
}

// ListByUser returns a user's budgets.
// GET /api/budgets/user/{userId}
func (h *BudgetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.store.GetBudgetsByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, budgets)
}

// Update modifies a budget.
// PUT /api/budgets/{id}
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := req.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "dates must be yyyy-mm-dd")
		return
	}
	budget.ID = chi.URLParam(r, "id")

	updated, err := h.store.UpdateBudget(r.Context(), budget)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete removes a budget.
// DELETE /api/budgets/{id}
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
