// Package receipt turns OCR'd receipt text into an enriched, catalog-matched
// spending record proposal.
package receipt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// BaseCurrency is the currency every receipt total is converted into.
const BaseCurrency = "VND"

// Parser extracts structured data from receipt text.
type Parser interface {
	Parse(ctx context.Context, text string) (*llm.ReceiptData, error)
}

// CurrencyConverter converts an amount between currencies.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// CategoryFinder looks up catalog categories by name. A nil result with a
// nil error means no category with that name exists.
type CategoryFinder interface {
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}

// Service orchestrates the receipt pipeline: parse, match the detected
// category against the catalog, and convert foreign totals into the base
// currency.
type Service struct {
	parser     Parser
	converter  CurrencyConverter
	categories CategoryFinder
	logger     *slog.Logger
}

// NewService creates a receipt service.
func NewService(parser Parser, converter CurrencyConverter, categories CategoryFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		parser:     parser,
		converter:  converter,
		categories: categories,
		logger:     logger,
	}
}

// Process parses the receipt text and enriches the result. The detected
// category is replaced with the matching catalog entry, or the fallback
// category when nothing matches. Totals in a foreign currency are converted
// to the base currency; when conversion fails the original amount is kept.
func (s *Service) Process(ctx context.Context, text string) (*llm.ReceiptData, error) {
	data, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.matchCategory(ctx, data); err != nil {
		return nil, err
	}

	data.OriginalAmount = data.TotalAmount
	data.OriginalCurrency = data.Currency
	data.ConvertedAmount = data.TotalAmount
	data.ConvertedCurrency = BaseCurrency

	if data.Currency != BaseCurrency {
		converted, err := s.converter.Convert(ctx, data.TotalAmount, data.Currency, BaseCurrency)
		if err != nil {
			s.logger.Warn("currency conversion failed, keeping original amount",
				"currency", data.Currency,
				"error", err)
		} else {
			data.ConvertedAmount = converted
		}
	}

	data.Category.Description = fmt.Sprintf("Total spending of %s %s (%s %s) in category %s.",
		data.ConvertedAmount, data.ConvertedCurrency,
		data.OriginalAmount, data.OriginalCurrency,
		data.Category.Name)

	return data, nil
}

// matchCategory swaps the model's category guess for the catalog entry with
// the same name, or the fallback category when there is none.
func (s *Service) matchCategory(ctx context.Context, data *llm.ReceiptData) error {
	if data.Category.Name != "" {
		matched, err := s.categories.GetCategoryByName(ctx, data.Category.Name)
		if err != nil {
			return fmt.Errorf("category lookup failed: %w", err)
		}
		if matched != nil {
			data.Category = llm.ReceiptCategory{
				ID:          matched.ID,
				Name:        matched.Name,
				Description: matched.Description,
				Icon:        matched.Icon,
			}
			return nil
		}
	}

	fallback, err := s.categories.GetCategoryByName(ctx, model.FallbackCategoryName)
	if err != nil {
		return fmt.Errorf("fallback category lookup failed: %w", err)
	}
	if fallback != nil {
		data.Category = llm.ReceiptCategory{
			ID:          fallback.ID,
			Name:        fallback.Name,
			Description: fallback.Description,
			Icon:        fallback.Icon,
		}
		return nil
	}

	// No catalog fallback either; keep the guess but pin the name.
	data.Category.Name = model.FallbackCategoryName
	return nil
}
