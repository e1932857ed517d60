package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// Amounts are stored as decimal strings so that no precision is lost going
// through the database.
func scanAmount(raw string, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse stored %s %q: %w", field, raw, err)
	}
	return amount, nil
}

// CreateExpense records a new expense for a user.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &model.Expense{
		ID:          uuid.NewString(),
		UserID:      expense.UserID,
		CategoryID:  expense.CategoryID,
		StoreName:   expense.StoreName,
		Description: expense.Description,
		TotalAmount: expense.TotalAmount,
		Date:        expense.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var date sql.NullTime
	if created.Date != nil {
		date = sql.NullTime{Time: created.Date.UTC(), Valid: true}
	}

	insertQuery := `
		INSERT INTO expenses (id, user_id, category_id, store_name, description, total_amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, insertQuery,
		created.ID, created.UserID, created.CategoryID, created.StoreName, created.Description,
		created.TotalAmount.String(), date, created.CreatedAt, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("created expense",
		"id", created.ID,
		"user_id", created.UserID,
		"amount", created.TotalAmount)
	return created, nil
}

// GetExpense returns an expense by ID.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, category_id, store_name, description, total_amount, date, created_at, updated_at
		FROM expenses
		WHERE id = ?`

	expense, err := scanExpenseRow(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	return expense, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpenseRow(row rowScanner) (*model.Expense, error) {
	var (
		expense model.Expense
		amount  string
		date    sql.NullTime
	)
	if err := row.Scan(
		&expense.ID, &expense.UserID, &expense.CategoryID, &expense.StoreName, &expense.Description,
		&amount, &date, &expense.CreatedAt, &expense.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := scanAmount(amount, "expense amount")
	if err != nil {
		return nil, err
	}
	expense.TotalAmount = parsed
	if date.Valid {
		d := date.Time
		expense.Date = &d
	}
	return &expense, nil
}

// GetExpensesByUser returns a user's expenses joined with their categories,
// most recent first.
func (s *SQLiteStorage) GetExpensesByUser(ctx context.Context, userID string) ([]model.ExpenseWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.user_id, e.category_id, e.store_name, e.description, e.total_amount, e.date,
		       e.created_at, e.updated_at, c.name, c.icon
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?
		ORDER BY e.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.ExpenseWithCategory
	for rows.Next() {
		var (
			item   model.ExpenseWithCategory
			amount string
			date   sql.NullTime
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.CategoryID, &item.StoreName, &item.Description,
			&amount, &date, &item.CreatedAt, &item.UpdatedAt, &item.CategoryName, &item.CategoryIcon,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		parsed, err := scanAmount(amount, "expense amount")
		if err != nil {
			return nil, err
		}
		item.TotalAmount = parsed
		if date.Valid {
			d := date.Time
			item.Date = &d
		}
		expenses = append(expenses, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses", "user_id", userID, "count", len(expenses))
	return expenses, nil
}

// GetExpensesByCategory returns every expense recorded against a category,
// most recent first.
func (s *SQLiteStorage) GetExpensesByCategory(ctx context.Context, categoryID string) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, category_id, store_name, description, total_amount, date, created_at, updated_at
		FROM expenses
		WHERE category_id = ?
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by category: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses by category", "category_id", categoryID, "count", len(expenses))
	return expenses, nil
}

// GetCategoryTotals returns a user's all-time spending grouped by category.
func (s *SQLiteStorage) GetCategoryTotals(ctx context.Context, userID string) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	// SUM over decimal strings is fine here: SQLite coerces them to REAL,
	// and chart aggregates do not need exact precision.
	query := `
		SELECT c.name, SUM(CAST(e.total_amount AS REAL))
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?
		GROUP BY c.name
		ORDER BY c.name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	var totals []model.CategoryTotal
	for rows.Next() {
		var (
			total  model.CategoryTotal
			amount float64
		)
		if err := rows.Scan(&total.CategoryName, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		total.TotalAmount = decimal.NewFromFloat(amount)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

// GetMonthlyCategoryTotals returns a user's spending for one year, grouped by
// calendar month and category.
func (s *SQLiteStorage) GetMonthlyCategoryTotals(ctx context.Context, userID string, year int) ([]model.MonthlyCategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT c.name, CAST(strftime('%m', e.date) AS INTEGER), SUM(CAST(e.total_amount AS REAL))
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ? AND e.date IS NOT NULL AND strftime('%Y', e.date) = ?
		GROUP BY c.name, strftime('%m', e.date)
		ORDER BY strftime('%m', e.date), c.name`

	rows, err := s.db.QueryContext(ctx, query, userID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []model.MonthlyCategoryTotal
	for rows.Next() {
		var (
			total  model.MonthlyCategoryTotal
			amount float64
		)
		if err := rows.Scan(&total.CategoryName, &total.Month, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		total.TotalAmount = decimal.NewFromFloat(amount)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return totals, nil
}

// UpdateExpense updates an existing expense.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}
	if err := validateString(expense.ID, "expense.ID"); err != nil {
		return nil, err
	}

	var date sql.NullTime
	if expense.Date != nil {
		date = sql.NullTime{Time: expense.Date.UTC(), Valid: true}
	}

	updateQuery := `
		UPDATE expenses
		SET category_id = ?, store_name = ?, description = ?, total_amount = ?, date = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, updateQuery,
		expense.CategoryID, expense.StoreName, expense.Description,
		expense.TotalAmount.String(), date, time.Now().UTC(), expense.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("expense %s: %w", expense.ID, common.ErrNotFound)
	}

	return s.GetExpense(ctx, expense.ID)
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted expense", "id", id)
	return nil
}
