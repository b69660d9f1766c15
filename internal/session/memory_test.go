package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, &Record{ID: "a"}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	got, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRepositoryExpiry(t *testing.T) {
	repo := NewMemoryRepository(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, &Record{ID: "b"}))
	time.Sleep(5 * time.Millisecond)

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}
