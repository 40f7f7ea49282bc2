// Package database owns the process-wide Postgres connection pool.
//
// The pool is an explicit handle constructed in main and passed to the
// repository layer; nothing in this package is package-level state. The
// handle opens lazily on first use and caches a "not configured" state
// for the life of the process when no connection string was provided,
// so the rest of the application can degrade instead of failing.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/aster/playground/internal/domain"
)

const (
	maxOpenConns    = 20
	connMaxIdleTime = 30 * time.Second
	connectTimeout  = 2 * time.Second
)

// Pool is a lazily-initialized handle to the shared sqlx connection pool.
type Pool struct {
	dsn string

	mu     sync.Mutex
	db     *sqlx.DB
	warned bool
}

// New records the connection string without opening anything. An empty
// dsn is allowed; DB then reports domain.ErrUnavailable forever.
func New(dsn string) *Pool {
	return &Pool{dsn: dsn}
}

// DB returns the shared pool, opening it on first call. All callers
// after the first get the memoized handle. The unavailable state is
// cached: once DB has warned about a missing connection string it will
// not retry for the process lifetime.
func (p *Pool) DB(ctx context.Context) (*sqlx.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	if p.dsn == "" {
		if !p.warned {
			slog.Warn("DATABASE_URL is not set, database features are disabled")
			p.warned = true
		}
		return nil, domain.ErrUnavailable
	}

	db, err := sqlx.Open("pgx", p.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected")
	p.db = db
	return p.db, nil
}

// Configured reports whether a connection string was provided at all.
func (p *Pool) Configured() bool {
	return p.dsn != ""
}

// Close releases the pool if it was ever opened. Safe to call multiple
// times; used by the graceful shutdown path.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	db := p.db
	p.db = nil
	return db.Close()
}
