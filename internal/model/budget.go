package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending allowance over a date range.
type Budget struct {
	StartDate time.Time       `json:"startBudgetDate"`
	EndDate   time.Time       `json:"endBudgetDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
}
