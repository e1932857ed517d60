package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single recorded expense, typically produced from a
// parsed receipt but also enterable directly through the API.
type Expense struct {
	Date        *time.Time      `json:"date,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	CategoryID  string          `json:"categoryId"`
	StoreName   string          `json:"storeName,omitempty"`
	Description string          `json:"description,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ExpenseWithCategory is an Expense joined with its category for list views.
type ExpenseWithCategory struct {
	Expense
	CategoryName string `json:"categoryName"`
	CategoryIcon string `json:"categoryIcon"`
}

// CategoryTotal is one slice of the per-category spending breakdown.
type CategoryTotal struct {
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// MonthlyCategoryTotal is one cell of the month-by-category spending chart.
type MonthlyCategoryTotal struct {
	CategoryName string          `json:"categoryName"`
	Month        int             `json:"month"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}
