package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// CreateBudget records a new budget for a user.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &model.Budget{
		ID:        uuid.NewString(),
		UserID:    budget.UserID,
		Amount:    budget.Amount,
		StartDate: budget.StartDate.UTC(),
		EndDate:   budget.EndDate.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertQuery := `
		INSERT INTO budgets (id, user_id, amount, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, insertQuery,
		created.ID, created.UserID, created.Amount.String(),
		created.StartDate, created.EndDate, created.CreatedAt, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("created budget", "id", created.ID, "user_id", created.UserID)
	return created, nil
}

// GetBudget returns a budget by ID.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE id = ?`

	var (
		budget model.Budget
		amount string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&budget.ID, &budget.UserID, &amount,
		&budget.StartDate, &budget.EndDate, &budget.CreatedAt, &budget.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	parsed, err := scanAmount(amount, "budget amount")
	if err != nil {
		return nil, err
	}
	budget.Amount = parsed

	return &budget, nil
}

// GetBudgetsByUser returns a user's budgets ordered by start date, most
// recent first.
func (s *SQLiteStorage) GetBudgetsByUser(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY start_date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var (
			budget model.Budget
			amount string
		)
		if err := rows.Scan(
			&budget.ID, &budget.UserID, &amount,
			&budget.StartDate, &budget.EndDate, &budget.CreatedAt, &budget.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}

		parsed, err := scanAmount(amount, "budget amount")
		if err != nil {
			return nil, err
		}
		budget.Amount = parsed
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "user_id", userID, "count", len(budgets))
	return budgets, nil
}

// UpdateBudget updates an existing budget.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	if err := validateString(budget.ID, "budget.ID"); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE budgets
		SET amount = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, updateQuery,
		budget.Amount.String(), budget.StartDate.UTC(), budget.EndDate.UTC(), time.Now().UTC(), budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("budget %s: %w", budget.ID, common.ErrNotFound)
	}

	return s.GetBudget(ctx, budget.ID)
}

// DeleteBudget removes a budget by ID.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted budget", "id", id)
	return nil
}
