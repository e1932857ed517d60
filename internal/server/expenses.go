package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// ExpenseStore is the storage surface the expense handlers need.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error)
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	GetExpensesByUser(ctx context.Context, userID string) ([]model.ExpenseWithCategory, error)
	GetExpensesByCategory(ctx context.Context, categoryID string) ([]model.Expense, error)
	GetCategoryTotals(ctx context.Context, userID string) ([]model.CategoryTotal, error)
	GetMonthlyCategoryTotals(ctx context.Context, userID string, year int) ([]model.MonthlyCategoryTotal, error)
	UpdateExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// ExpenseHandler serves the /api/expenses routes.
type ExpenseHandler struct {
	store ExpenseStore
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(store ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

type expenseRequest struct {
	UserID      string          `json:"userId"`
	CategoryID  string          `json:"categoryId"`
	StoreName   string          `json:"storeName"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (req *expenseRequest) toModel() (*model.Expense, error) {
	expense := &model.Expense{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		StoreName:   req.StoreName,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = &date
	}
	return expense, nil
}

// Create records an expense.
// POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := req.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be yyyy-mm-dd")
		return
	}

	created, err := h.store.CreateExpense(r.Context(), expense)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Get returns one expense by ID.
// GET /api/expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.store.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, expense)
}

// ListByUser returns a user's expenses with their categories.
// GET /api/expenses/user/{userId}
func (h *ExpenseHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.GetExpensesByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, expenses)
}

// ListByCategory returns every expense recorded against a category.
// GET /api/expenses/category/{categoryId}
func (h *ExpenseHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.GetExpensesByCategory(r.Context(), chi.URLParam(r, "categoryId"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, expenses)
}

// CategoryChart returns a user's all-time per-category totals.
// GET /api/expenses/user/{userId}/chart/categories
func (h *ExpenseHandler) CategoryChart(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.GetCategoryTotals(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, totals)
}

// MonthlyChart returns a user's month-by-category totals for one year.
// GET /api/expenses/user/{userId}/chart/monthly?year=2024
func (h *ExpenseHandler) MonthlyChart(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		year = time.Now().Year()
	}

	totals, err := h.store.GetMonthlyCategoryTotals(r.Context(), chi.URLParam(r, "userId"), year)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, totals)
}

// Update modifies an expense.
// PUT /api/expenses/{id}
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := req.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be yyyy-mm-dd")
		return
	}
	expense.ID = chi.URLParam(r, "id")

	updated, err := h.store.UpdateExpense(r.Context(), expense)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete removes an expense.
// DELETE /api/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
