package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// IncomeStore is the storage surface the income handlers need.
type IncomeStore interface {
	CreateIncome(ctx context.Context, income *model.Income) (*model.Income, error)
	GetIncome(ctx context.Context, id string) (*model.Income, error)
	GetIncomesByUser(ctx context.Context, userID string) ([]model.Income, error)
	UpdateIncome(ctx context.Context, income *model.Income) (*model.Income, error)
	DeleteIncome(ctx context.Context, id string) error
}

// IncomeHandler serves the /api/incomes routes.
type IncomeHandler struct {
	store IncomeStore
}

// NewIncomeHandler creates an IncomeHandler.
func NewIncomeHandler(store IncomeStore) *IncomeHandler {
	return &IncomeHandler{store: store}
}

type incomeRequest struct {
	UserID      string          `json:"userId"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// Create records an income directly, without going through the assistant.
// POST /api/incomes
func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be yyyy-mm-dd")
		return
	}

	created, err := h.store.CreateIncome(r.Context(), &model.Income{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Get returns one income by ID.
// GET /api/incomes/{id}
func (h *IncomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	income, err := h.store.GetIncome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, income)
}

// ListByUser returns a user's incomes.
// GET /api/incomes/user/{userId}
func (h *IncomeHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.store.GetIncomesByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, incomes)
}

// Update modifies an income.
// PUT /api/incomes/{id}
func (h *IncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be yyyy-mm-dd")
		return
	}

	updated, err := h.store.UpdateIncome(r.Context(), &model.Income{
		ID:          chi.URLParam(r, "id"),
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete removes an income.
// DELETE /api/incomes/{id}
func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
