// Package storage provides the data persistence layer for the penny application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidUser      = errors.New("invalid user")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidExpense   = errors.New("invalid expense")
	ErrInvalidIncome    = errors.New("invalid income")
	ErrInvalidBudget    = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUser validates a user record.
func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.AuthID) == "" {
		return fmt.Errorf("%w: missing auth ID", ErrInvalidUser)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// validateExpense validates an expense record.
func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if expense.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidExpense)
	}
	if expense.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidExpense)
	}
	if expense.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidExpense)
	}
	return nil
}

// validateIncome validates an income record.
func validateIncome(income *model.Income) error {
	if income == nil {
		return fmt.Errorf("%w: income", ErrNilParameter)
	}
	if income.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidIncome)
	}
	if !income.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidIncome)
	}
	if income.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidIncome)
	}
	return nil
}

// validateBudget validates a budget record.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidBudget)
	}
	if !budget.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBudget)
	}
	if budget.StartDate.IsZero() || budget.EndDate.IsZero() {
		return fmt.Errorf("%w: missing date range", ErrInvalidBudget)
	}
	if !budget.StartDate.Before(budget.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}
