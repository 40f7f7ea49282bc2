package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aster/playground/internal/domain"
)

// UserRepo defines the user data access interface consumed by UserService.
type UserRepo interface {
	Upsert(ctx context.Context, nu domain.NewUser) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
	Ping(ctx context.Context) error
}

// UserService wraps the repository with the store's public contract:
// storage errors never propagate to callers. Configuration absence and
// query failures are logged server-side and converted to safe defaults
// (nil, empty list, zero stats). The repository's typed errors keep the
// two cases distinguishable in the logs.
type UserService struct {
	repo UserRepo
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepo) *UserService {
	return &UserService{repo: repo}
}

// RecordLogin upserts the user for a successful identity-provider
// login. Returns nil when the store is unavailable or the query fails;
// sign-in proceeds either way.
func (s *UserService) RecordLogin(ctx context.Context, nu domain.NewUser) *domain.User {
	user, err := s.repo.Upsert(ctx, nu)
	if err != nil {
		logStorageError("login will not be persisted", err)
		return nil
	}
	return user
}

// ListUsers returns one page of users plus the total count, or ([], 0)
// when the store is unavailable or the query fails.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int) {
	users, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		logStorageError("returning empty user list", err)
		return []domain.User{}, 0
	}
	return users, total
}

// GetByExternalID looks up a user by identity-provider subject id.
// Missing, unavailable and failed all yield nil.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) *domain.User {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logStorageError("cannot retrieve user", err)
		}
		return nil
	}
	return user
}

// Stats returns the aggregate sign-up statistics, or all zeroes when
// the store is unavailable or the query fails.
func (s *UserService) Stats(ctx context.Context) domain.UserStats {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		logStorageError("returning zero stats", err)
		return domain.UserStats{}
	}
	return *stats
}

// CheckConnection probes database liveness. The log line distinguishes
// a missing connection string from a failing query; the caller only
// sees the boolean.
func (s *UserService) CheckConnection(ctx context.Context) bool {
	if err := s.repo.Ping(ctx); err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			slog.Error("database connection test failed: DATABASE_URL is not set")
		} else {
			slog.Error("database connection test failed", "error", err)
		}
		return false
	}
	slog.Info("database connection test successful")
	return true
}

func logStorageError(consequence string, err error) {
	if errors.Is(err, domain.ErrUnavailable) {
		slog.Warn("database not available, "+consequence, "error", err)
		return
	}
	slog.Error("database query failed, "+consequence, "error", err)
}
