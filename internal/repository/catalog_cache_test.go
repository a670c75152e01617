package repository

import (
	"context"
	"testing"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/stretchr/testify/require"
)

func TestCatalogCache(t *testing.T) {
	client := newTestRedis(t)
	cache := NewCatalogCache(client)
	ctx := context.Background()

	books, hit, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, hit)
	require.Nil(t, books)

	catalog := []models.Book{
		{BookID: 1, ISBN: "978-0441013593", Title: "Dune", Author: "Frank Herbert", AvailableCopies: 2, BranchName: "Central"},
		{BookID: 2, ISBN: "978-0553283686", Title: "Hyperion", Author: "Dan Simmons", AvailableCopies: 1, BranchName: "Central"},
	}
	require.NoError(t, cache.Set(ctx, catalog, time.Minute))

	books, hit, err = cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, catalog, books)

	require.NoError(t, cache.Invalidate(ctx))

	_, hit, err = cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestCatalogCacheCorruptEntryIsAMiss(t *testing.T) {
	client := newTestRedis(t)
	cache := NewCatalogCache(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "cache:catalog", "not json", time.Minute).Err())

	_, hit, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, hit)
}
