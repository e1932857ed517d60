package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// CreateIncome persists a new income record. The caller supplies the ID so
// that the assistant can log it before the write.
func (s *SQLiteStorage) CreateIncome(ctx context.Context, income *model.Income) (*model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIncome(income); err != nil {
		return nil, err
	}
	if err := validateString(income.ID, "income.ID"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &model.Income{
		ID:          income.ID,
		UserID:      income.UserID,
		Amount:      income.Amount,
		Description: income.Description,
		Date:        income.Date.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	insertQuery := `
		INSERT INTO incomes (id, user_id, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, insertQuery,
		created.ID, created.UserID, created.Amount.String(), created.Description,
		created.Date, created.CreatedAt, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	slog.Info("created income",
		"id", created.ID,
		"user_id", created.UserID,
		"amount", created.Amount)
	return created, nil
}

// GetIncome returns an income by ID.
func (s *SQLiteStorage) GetIncome(ctx context.Context, id string) (*model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, description, date, created_at, updated_at
		FROM incomes
		WHERE id = ?`

	var (
		income model.Income
		amount string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&income.ID, &income.UserID, &amount, &income.Description,
		&income.Date, &income.CreatedAt, &income.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("income %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query income: %w", err)
	}

	parsed, err := scanAmount(amount, "income amount")
	if err != nil {
		return nil, err
	}
	income.Amount = parsed

	return &income, nil
}

// GetIncomesByUser returns a user's incomes, most recent first.
func (s *SQLiteStorage) GetIncomesByUser(ctx context.Context, userID string) ([]model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, description, date, created_at, updated_at
		FROM incomes
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	var incomes []model.Income
	for rows.Next() {
		var (
			income model.Income
			amount string
		)
		if err := rows.Scan(
			&income.ID, &income.UserID, &amount, &income.Description,
			&income.Date, &income.CreatedAt, &income.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}

		parsed, err := scanAmount(amount, "income amount")
		if err != nil {
			return nil, err
		}
		income.Amount = parsed
		incomes = append(incomes, income)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}

	slog.Debug("retrieved incomes", "user_id", userID, "count", len(incomes))
	return incomes, nil
}

// UpdateIncome updates an existing income record.
func (s *SQLiteStorage) UpdateIncome(ctx context.Context, income *model.Income) (*model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIncome(income); err != nil {
		return nil, err
	}
	if err := validateString(income.ID, "income.ID"); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE incomes
		SET amount = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, updateQuery,
		income.Amount.String(), income.Description, income.Date.UTC(), time.Now().UTC(), income.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update income: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("income %s: %w", income.ID, common.ErrNotFound)
	}

	return s.GetIncome(ctx, income.ID)
}

// DeleteIncome removes an income by ID.
func (s *SQLiteStorage) DeleteIncome(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("income %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted income", "id", id)
	return nil
}
