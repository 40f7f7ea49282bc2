package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aster/playground/internal/domain"
)

func TestPoolUnavailableWithoutDSN(t *testing.T) {
	pool := New("")
	ctx := context.Background()

	assert.False(t, pool.Configured())

	// The unavailable state is cached; repeated borrows behave the same.
	for n := 0; n < 3; n++ {
		db, err := pool.DB(ctx)
		assert.Nil(t, db)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	}
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	pool := New("")

	assert.NoError(t, pool.Close())
	assert.NoError(t, pool.Close())
}

func TestPoolConfigured(t *testing.T) {
	pool := New("postgres://localhost:5432/app")
	assert.True(t, pool.Configured())
}
