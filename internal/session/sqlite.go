package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// Ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists sessions in the chat_sessions table of the
// application database, so in-progress dialogues survive a process
// restart. Expired rows are invisible to Load and swept in the
// background.
type SQLiteStore struct {
	db     *sql.DB
	stopCh chan struct{}
	ttl    time.Duration
}

// NewSQLiteStore creates a SQLite-backed session store and starts its
// sweep loop.
func NewSQLiteStore(db *sql.DB, ttl time.Duration) *SQLiteStore {
	s := &SQLiteStore{
		db:     db,
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Load retrieves the session for userID. Rows past their expiry are
// treated as absent.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (*model.ChatSession, error) {
	query := `SELECT data, expires_at FROM chat_sessions WHERE user_id = ?`

	var data string
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if time.Now().After(expiresAt) {
		return nil, common.ErrNotFound
	}

	var sess model.ChatSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &sess, nil
}

// Save upserts the session and resets its inactivity timer.
func (s *SQLiteStore) Save(ctx context.Context, userID string, sess *model.ChatSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO chat_sessions (user_id, data, expires_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			data = excluded.data,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, userID, string(data), time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the session for userID.
func (s *SQLiteStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close stops the sweep loop.
func (s *SQLiteStore) Close() {
	close(s.stopCh)
}

// sweepLoop periodically removes expired rows.
func (s *SQLiteStore) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			res, err := s.db.Exec(`DELETE FROM chat_sessions WHERE expires_at < ?`, time.Now())
			if err != nil {
				slog.Warn("session sweep failed", "error", err)
				continue
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				slog.Debug("swept expired sessions", "count", n)
			}
		}
	}
}
