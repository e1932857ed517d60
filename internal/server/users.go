package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/penny-for-your-thoughts/internal/auth"
	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// UserStore is the storage surface the user handlers need.
type UserStore interface {
	UpsertUserByAuthID(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler serves the /api/users routes.
type UserHandler struct {
	store    UserStore
	verifier auth.Verifier
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(store UserStore, verifier auth.Verifier) *UserHandler {
	return &UserHandler{store: store, verifier: verifier}
}

// Verify validates an identity token and returns the (possibly freshly
// created) user it belongs to.
// POST /api/users/verify
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		respondStorageError(w, err)
		return
	}

	user, err := h.store.UpsertUserByAuthID(r.Context(), &model.User{
		AuthID:   identity.Subject,
		Username: identity.Name,
		Email:    identity.Email,
	})
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}

// List returns all users.
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, users)
}

// Get returns one user by ID.
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// Delete removes a user.
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
