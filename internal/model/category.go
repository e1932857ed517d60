package model

import "time"

// Category represents a spending category that expenses are filed under.
type Category struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// FallbackCategoryName is the category assigned to parsed receipts whose
// detected category does not match anything in the catalog.
const FallbackCategoryName = "Other"
