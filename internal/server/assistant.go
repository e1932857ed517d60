package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// TurnRunner runs one turn of the income dialogue.
type TurnRunner interface {
	HandleMessage(ctx context.Context, userID, message string) (model.TurnResult, error)
}

// ReceiptProcessor parses and enriches receipt text.
type ReceiptProcessor interface {
	Process(ctx context.Context, text string) (*llm.ReceiptData, error)
}

// AssistantHandler serves the /api/assistant routes.
type AssistantHandler struct {
	assistant TurnRunner
	receipts  ReceiptProcessor
	limiter   *RateLimiter
	collector *Collector
}

// NewAssistantHandler creates an AssistantHandler. The limiter and collector
// may be nil, in which case limiting and metrics are skipped.
func NewAssistantHandler(assistant TurnRunner, receipts ReceiptProcessor, limiter *RateLimiter, collector *Collector) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		receipts:  receipts,
		limiter:   limiter,
		collector: collector,
	}
}

// Income runs one turn of the income dialogue. Every recoverable outcome is
// a 200 with the turn result; only internal faults are 500s.
// POST /api/assistant/income
func (h *AssistantHandler) Income(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "message and userId are required")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(req.UserID) {
		respondError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	result, err := h.assistant.HandleMessage(r.Context(), req.UserID, req.Message)
	if err != nil {
		if h.collector != nil {
			h.collector.RecordTurn("fault")
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.collector != nil {
		h.collector.RecordTurn(string(result.Status))
		if result.Status == model.StatusSuccess && result.Data != nil {
			h.collector.RecordIncomeCommit()
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// Receipt parses receipt text into an enriched spending proposal.
// POST /api/assistant/receipt
func (h *AssistantHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExtractedText string `json:"extractedText"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ExtractedText == "" {
		respondError(w, http.StatusBadRequest, "no receipt text provided")
		return
	}

	data, err := h.receipts.Process(r.Context(), req.ExtractedText)
	if err != nil {
		if errors.Is(err, common.ErrUnparseable) {
			if h.collector != nil {
				h.collector.RecordParseFailure()
			}
			respondError(w, http.StatusInternalServerError, "could not parse receipt")
			return
		}
		respondStorageError(w, err)
		return
	}

	respondData(w, http.StatusOK, data)
}
