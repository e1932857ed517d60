package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

// ReceiptCategory is the model's guess at the spending category of a
// receipt. The ID is filled in later when the guess is matched against
// the category catalog.
type ReceiptCategory struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ReceiptItem is one line item on a parsed receipt.
type ReceiptItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ReceiptData is the structured reading of a receipt's OCR text. The
// conversion fields are populated by the receipt service after currency
// conversion.
type ReceiptData struct {
	StoreName         string          `json:"storeName"`
	Currency          string          `json:"currency"`
	Date              string          `json:"date"`
	OriginalCurrency  string          `json:"originalCurrency"`
	ConvertedCurrency string          `json:"convertedCurrency"`
	Items             []ReceiptItem   `json:"items"`
	Category          ReceiptCategory `json:"category"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	ConvertedAmount   decimal.Decimal `json:"convertedAmount"`
}

const receiptPrompt = `Analyze and extract information from the following receipt text as JSON:
{
  "storeName": "<store name>",
  "totalAmount": <total amount as a number>,
  "currency": "<currency code>",
  "date": "<purchase date in ISO format>",
  "items": [
    { "name": "<item name>", "quantity": <quantity>, "price": <unit price> }
  ],
  "category": {
    "name": "<category name>",
    "description": "<spending description>",
    "icon": "<category icon>"
  }
}
Respond with JSON only. Receipt text: %q`

// ReceiptParser extracts structured receipt data from OCR text.
type ReceiptParser struct {
	client    Client
	logger    *slog.Logger
	now       func() time.Time
	retryOpts common.RetryOptions
}

// NewReceiptParser creates a receipt parser around the given client.
func NewReceiptParser(client Client, cfg Config, logger *slog.Logger) *ReceiptParser {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}

	return &ReceiptParser{
		client:    client,
		logger:    logger,
		now:       time.Now,
		retryOpts: retryOpts,
	}
}

// Parse sends receipt text through the extraction prompt and normalizes
// the result: unusable dates fall back to today, the legacy VNĐ spelling
// collapses to VND, and a missing total is recomputed from line items.
func (p *ReceiptParser) Parse(ctx context.Context, text string) (*ReceiptData, error) {
	prompt := fmt.Sprintf(receiptPrompt, text)

	var raw string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		raw, genErr = p.client.Generate(ctx, prompt)
		return genErr
	}, p.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("receipt request failed: %w", err)
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnparseable, err)
	}

	data.Date = p.normalizeDate(data.Date)
	data.Currency = normalizeCurrency(data.Currency)

	if data.TotalAmount.IsZero() && len(data.Items) > 0 {
		data.TotalAmount = sumItems(data.Items)
	}

	return &data, nil
}

// normalizeDate accepts canonical or RFC 3339 input and falls back to
// today: a receipt with a garbled date is still worth recording.
func (p *ReceiptParser) normalizeDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	return p.now().Format("2006-01-02")
}

func normalizeCurrency(c string) string {
	switch c {
	case "", "VNĐ":
		return "VND"
	default:
		return c
	}
}

func sumItems(items []ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		total = total.Add(qty.Mul(item.Price))
	}
	return total
}
