package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// CreateCategory creates a new category. Category names are unique.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &model.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(category.Name),
		Description: category.Description,
		Icon:        category.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	insertQuery := `
		INSERT INTO categories (id, name, description, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, insertQuery,
		created.ID, created.Name, created.Description, created.Icon, created.CreatedAt, created.UpdatedAt); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("category %q: %w", created.Name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created new category", "name", created.Name, "id", created.ID)
	return created, nil
}

// GetCategory returns a category by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, icon, created_at, updated_at
		FROM categories
		WHERE id = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.Icon, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName returns a category by its name, or nil when no category
// with that name exists. The lookup is case-insensitive so that LLM-detected
// category names match regardless of casing.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, icon, created_at, updated_at
		FROM categories
		WHERE name = ? COLLATE NOCASE`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.Icon, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, icon, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Icon, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// UpdateCategory updates a category's name, description, and icon.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := validateString(category.ID, "category.ID"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updateQuery := `
		UPDATE categories
		SET name = ?, description = ?, icon = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, updateQuery,
		strings.TrimSpace(category.Name), category.Description, category.Icon, now, category.ID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("category %q: %w", category.Name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("category %s: %w", category.ID, common.ErrNotFound)
	}

	return s.GetCategory(ctx, category.ID)
}

// DeleteCategory removes a category by ID.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted category", "id", id)
	return nil
}
