package chat

import (
	"context"

	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// Extractor turns a raw chat message into a best-effort field guess.
type Extractor interface {
	Extract(ctx context.Context, message string) (llm.FieldGuess, error)
}

// IncomeCreator persists committed income records.
type IncomeCreator interface {
	CreateIncome(ctx context.Context, income *model.Income) (*model.Income, error)
}
