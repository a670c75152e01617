package repository

import (
	"context"
	"encoding/json"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/go-redis/redis/v8"
)

const catalogKey = "cache:catalog"

// CatalogCache is a Redis cache-aside for the full book catalog. The catalog
// listing is the hottest read in the system and has no server-side filtering,
// so one key holds the whole list.
type CatalogCache interface {
	Get(ctx context.Context) ([]models.Book, bool, error)
	Set(ctx context.Context, books []models.Book, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type redisCatalogCache struct {
	rdb *redis.Client
}

// NewCatalogCache creates a new Redis-based CatalogCache.
func NewCatalogCache(rdb *redis.Client) CatalogCache {
	return &redisCatalogCache{rdb: rdb}
}

// Get returns the cached catalog and whether the cache held one.
func (c *redisCatalogCache) Get(ctx context.Context) ([]models.Book, bool, error) {
	ctx, span := tracer.Start(ctx, "CatalogCache.Get")
	defer span.End()

	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return books, true, nil
}

// Set stores the catalog with the given TTL.
func (c *redisCatalogCache) Set(ctx context.Context, books []models.Book, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "CatalogCache.Set")
	defer span.End()

	data, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, data, ttl).Err()
}

// Invalidate drops the cached catalog after a mutation.
func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CatalogCache.Invalidate")
	defer span.End()

	return c.rdb.Del(ctx, catalogKey).Err()
}
