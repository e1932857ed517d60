package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					auth_id TEXT UNIQUE NOT NULL,
					username TEXT NOT NULL,
					email TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_users_auth_id ON users(auth_id)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					icon TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					category_id TEXT NOT NULL REFERENCES categories(id),
					store_name TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					total_amount TEXT NOT NULL,
					date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_expenses_user ON expenses(user_id)`,
				`CREATE INDEX idx_expenses_category ON expenses(category_id)`,
				`CREATE INDEX idx_expenses_created ON expenses(created_at)`,

				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					amount TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_incomes_user ON incomes(user_id)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					amount TEXT NOT NULL,
					start_date DATETIME NOT NULL,
					end_date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_budgets_user ON budgets(user_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute migration query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Chat session persistence",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS chat_sessions (
					user_id TEXT PRIMARY KEY,
					data TEXT NOT NULL,
					expires_at DATETIME NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_chat_sessions_expires ON chat_sessions(expires_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute migration query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		slog.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return nil
}
