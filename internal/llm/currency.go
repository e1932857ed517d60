package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

const conversionPrompt = `Convert the amount %s %s to %s and return only the converted amount as a number, with no explanatory text.`

// Converter performs currency conversion through the LLM. The exchange
// rate is whatever the model believes it to be, so callers treat a failed
// or nonsensical conversion as "keep the original amount".
type Converter struct {
	client Client
}

// NewConverter creates a currency converter around the given client.
func NewConverter(client Client) *Converter {
	return &Converter{client: client}
}

// Convert asks the model for amount expressed in the target currency.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	prompt := fmt.Sprintf(conversionPrompt, amount.String(), from, to)

	raw, err := c.client.Generate(ctx, prompt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("conversion request failed: %w", err)
	}

	cleaned := nonNumericRe.ReplaceAllString(strings.TrimSpace(raw), "")
	converted, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: conversion reply %q", common.ErrUnparseable, raw)
	}

	return converted, nil
}
