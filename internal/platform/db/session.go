package db

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// Session is the single live database session of the process.
// Every call (read or transaction) is serialised, so at most one
// transaction is in flight on the connection at any time.
type Session struct {
	db      *sql.DB
	timeout time.Duration
	mu      sync.Mutex
}

func NewSession(conn *sql.DB, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Session{db: conn, timeout: timeout}
}

func (s *Session) Close() error { return s.db.Close() }

func (s *Session) Timeout() time.Duration { return s.timeout }

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
