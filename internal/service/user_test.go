package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aster/playground/internal/domain"
)

// stubRepo satisfies UserRepo with canned results per method.
type stubRepo struct {
	user  *domain.User
	users []domain.User
	total int
	stats *domain.UserStats
	err   error
}

func (s *stubRepo) Upsert(_ context.Context, _ domain.NewUser) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubRepo) List(_ context.Context, _, _ int) ([]domain.User, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.users, s.total, nil
}

func (s *stubRepo) FindByExternalID(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubRepo) Stats(_ context.Context) (*domain.UserStats, error) {
	return s.stats, s.err
}

func (s *stubRepo) Ping(_ context.Context) error {
	return s.err
}

func TestUserServiceDegradesWhenUnavailable(t *testing.T) {
	svc := NewUserService(&stubRepo{err: domain.ErrUnavailable})
	ctx := context.Background()

	assert.Nil(t, svc.RecordLogin(ctx, domain.NewUser{ExternalID: "u1", Email: "a@x.com"}))

	users, total := svc.ListUsers(ctx, 20, 0)
	assert.Empty(t, users)
	assert.NotNil(t, users)
	assert.Zero(t, total)

	assert.Nil(t, svc.GetByExternalID(ctx, "u1"))
	assert.Equal(t, domain.UserStats{}, svc.Stats(ctx))
	assert.False(t, svc.CheckConnection(ctx))
}

func TestUserServiceDegradesOnQueryFailure(t *testing.T) {
	svc := NewUserService(&stubRepo{err: errors.New("connection reset")})
	ctx := context.Background()

	users, total := svc.ListUsers(ctx, 20, 0)
	assert.Empty(t, users)
	assert.Zero(t, total)
	assert.Equal(t, domain.UserStats{}, svc.Stats(ctx))
	assert.False(t, svc.CheckConnection(ctx))
}

func TestUserServicePassesThroughResults(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{
		user: &domain.User{ID: 1, ExternalID: "u1", Email: "a@x.com", CreatedAt: now, LoginCount: 3},
		users: []domain.User{
			{ID: 2, ExternalID: "u2", Email: "b@x.com"},
			{ID: 1, ExternalID: "u1", Email: "a@x.com"},
		},
		total: 42,
		stats: &domain.UserStats{TotalUsers: 42, NewUsersToday: 1, NewUsersThisWeek: 5, NewUsersThisMonth: 9},
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	user := svc.RecordLogin(ctx, domain.NewUser{ExternalID: "u1", Email: "a@x.com"})
	require.NotNil(t, user)
	assert.Equal(t, 3, user.LoginCount)

	users, total := svc.ListUsers(ctx, 2, 0)
	assert.Len(t, users, 2)
	assert.Equal(t, 42, total)

	stats := svc.Stats(ctx)
	assert.Equal(t, 42, stats.TotalUsers)

	assert.True(t, svc.CheckConnection(ctx))
}

func TestUserServiceGetByExternalIDNotFound(t *testing.T) {
	svc := NewUserService(&stubRepo{err: domain.ErrNotFound})

	assert.Nil(t, svc.GetByExternalID(context.Background(), "missing"))
}
