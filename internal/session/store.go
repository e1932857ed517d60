// Package session persists in-progress chat sessions keyed by user ID.
//
// Three interchangeable backends are provided: an in-process map (no
// expiry, lost on restart), a SQLite table sharing the application
// database, and Redis. The SQLite and Redis backends expire sessions
// after an inactivity TTL; every Save resets the timer.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// DefaultTTL is the inactivity window after which a stored session is
// discarded.
const DefaultTTL = 5 * time.Minute

// Store is the persistence contract for chat sessions. Load returns
// common.ErrNotFound for absent or expired sessions; no partial or stale
// reads are ever surfaced.
type Store interface {
	Load(ctx context.Context, userID string) (*model.ChatSession, error)
	Save(ctx context.Context, userID string, s *model.ChatSession) error
	Delete(ctx context.Context, userID string) error
}

// Config selects and parameterizes a session store backend.
type Config struct {
	Backend       string // "memory", "sqlite", or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// NewStore constructs the backend named by cfg.Backend. The db handle is
// only required for the sqlite backend.
func NewStore(cfg Config, db *sql.DB) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(0), nil
	case "sqlite":
		if db == nil {
			return nil, fmt.Errorf("sqlite session store requires a database handle")
		}
		return NewSQLiteStore(db, ttl), nil
	case "redis":
		return NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      ttl,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Backend)
	}
}
