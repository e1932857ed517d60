package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/storage"
)

// apiResponse is the uniform envelope every endpoint responds with.
type apiResponse struct {
	Data    any    `json:"data,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, code int, data any) {
	respondJSON(w, code, apiResponse{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, apiResponse{Status: "error", Message: message})
}

// respondStorageError maps repository errors onto HTTP statuses.
func respondStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrDuplicateEntry):
		respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrNilParameter),
		errors.Is(err, storage.ErrInvalidDateRange),
		errors.Is(err, storage.ErrInvalidUser),
		errors.Is(err, storage.ErrInvalidCategory),
		errors.Is(err, storage.ErrInvalidExpense),
		errors.Is(err, storage.ErrInvalidIncome),
		errors.Is(err, storage.ErrInvalidBudget):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into dst, rejecting unknown junk early.
func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}
