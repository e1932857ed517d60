package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents a committed income record. Incomes are created either
// directly through the API or by the assistant once a chat session has been
// confirmed.
type Income struct {
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
