package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aster/playground/internal/database"
	"github.com/aster/playground/internal/domain"
)

// UserRepository handles user data access operations. Every method
// borrows the shared pool through the database handle and returns
// typed errors: domain.ErrUnavailable when no database is configured,
// domain.ErrNotFound for missing rows, and wrapped driver errors for
// live query failures. Degrading those into safe defaults is the
// service layer's job, not this one's.
type UserRepository struct {
	pool *database.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *database.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, external_id, email, name, image, created_at, updated_at, last_login, login_count`

// EnsureSchema creates the users table if it does not exist yet. The
// unique constraint on external_id is what makes Upsert atomic.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGSERIAL PRIMARY KEY,
			external_id TEXT NOT NULL UNIQUE,
			email       TEXT NOT NULL,
			name        TEXT,
			image       TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			login_count INTEGER NOT NULL DEFAULT 1
		)`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Upsert records a login in a single atomic statement: a novel
// external_id inserts a fresh row with login_count = 1, a known one
// updates the mutable profile fields and increments login_count.
// created_at is never touched after the first insert. Concurrent
// upserts on the same key are serialized by Postgres' conflict
// resolution, so no increment is lost.
func (r *UserRepository) Upsert(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = db.QueryRowxContext(ctx,
		`INSERT INTO users (external_id, email, name, image, created_at, updated_at, last_login, login_count)
		 VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW(), 1)
		 ON CONFLICT (external_id)
		 DO UPDATE SET email = EXCLUDED.email,
		               name = EXCLUDED.name,
		               image = EXCLUDED.image,
		               updated_at = NOW(),
		               last_login = NOW(),
		               login_count = users.login_count + 1
		 RETURNING `+userColumns,
		nu.ExternalID, nu.Email, nu.Name, nu.Image,
	).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", nu.ExternalID, err)
	}
	return &user, nil
}

// List returns one page of users ordered by created_at descending,
// plus the total row count independent of the pagination window. The
// count and the page are separate statements and may observe different
// snapshots under concurrent writes.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := []domain.User{}
	err = db.SelectContext(ctx, &users,
		`SELECT `+userColumns+`
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// FindByExternalID retrieves a user by the identity provider's subject id.
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by external id %s: %w", externalID, err)
	}
	return &user, nil
}

// Stats computes the total user count and the three sign-up windows in
// one aggregate pass, all relative to query time.
func (r *UserRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return nil, err
	}

	var stats domain.UserStats
	err = db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_users,
		       COUNT(CASE WHEN created_at >= CURRENT_DATE THEN 1 END) AS new_today,
		       COUNT(CASE WHEN created_at >= NOW() - INTERVAL '7 days' THEN 1 END) AS new_week,
		       COUNT(CASE WHEN created_at >= NOW() - INTERVAL '30 days' THEN 1 END) AS new_month
		FROM users`)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &stats, nil
}

// Ping issues a trivial liveness probe against the pool.
func (r *UserRepository) Ping(ctx context.Context) error {
	db, err := r.pool.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("ping query: %w", err)
	}
	return nil
}
