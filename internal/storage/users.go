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

// UpsertUserByAuthID returns the user with the given auth provider identity,
// creating it on first sight. Username and email are refreshed from the token
// claims on every call.
func (s *SQLiteStorage) UpsertUserByAuthID(ctx context.Context, user *model.User) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	existing, err := s.GetUserByAuthID(ctx, user.AuthID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	if existing != nil {
		updateQuery := `
			UPDATE users
			SET username = ?, email = ?, updated_at = ?
			WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, updateQuery, user.Username, user.Email, now, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		existing.Username = user.Username
		existing.Email = user.Email
		existing.UpdatedAt = now
		return existing, nil
	}

	created := &model.User{
		ID:        uuid.NewString(),
		AuthID:    user.AuthID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertQuery := `
		INSERT INTO users (id, auth_id, username, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, insertQuery,
		created.ID, created.AuthID, created.Username, created.Email, created.CreatedAt, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("created new user", "id", created.ID, "email", created.Email)
	return created, nil
}

// GetUser returns a user by ID.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, auth_id, username, email, created_at, updated_at
		FROM users
		WHERE id = ?`

	var user model.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.AuthID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// GetUserByAuthID returns a user by its auth provider identity.
func (s *SQLiteStorage) GetUserByAuthID(ctx context.Context, authID string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(authID, "authID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, auth_id, username, email, created_at, updated_at
		FROM users
		WHERE auth_id = ?`

	var user model.User
	err := s.db.QueryRowContext(ctx, query, authID).Scan(
		&user.ID, &user.AuthID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth identity: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// ListUsers returns all users ordered by creation time.
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, auth_id, username, email, created_at, updated_at
		FROM users
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.AuthID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	slog.Debug("retrieved users", "count", len(users))
	return users, nil
}

// DeleteUser removes a user by ID.
func (s *SQLiteStorage) DeleteUser(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted user", "id", id)
	return nil
}
