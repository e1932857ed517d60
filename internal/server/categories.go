package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// CategoryStore is the storage surface the category handlers need.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryHandler serves the /api/categories routes.
type CategoryHandler struct {
	store CategoryStore
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(store CategoryStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Create adds a category.
// POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.store.CreateCategory(r.Context(), &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// List returns all categories.
// GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.GetCategories(r.Context())
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

// Get returns one category by ID.
// GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.store.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, category)
}

// Update modifies a category.
// PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.store.UpdateCategory(r.Context(), &model.Category{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete removes a category.
// DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
