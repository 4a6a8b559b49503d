package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/slumberhaus/storefront/internal/domain"
)

const (
	filterMetaKey      = "catalog:filters"
	catalogPageKeysSet = "catalog:page_keys"
	catalogPagePrefix  = "catalog:page:"
	reviewsPrefix      = "reviews:"
)

// RedisCache implements caching for catalog pages and filter metadata.
// Any catalog mutation can reshuffle sorting and pagination of every page,
// so cached pages are tracked in one SET and dropped together.
type RedisCache struct {
	client         *redis.Client
	catalogPageTTL time.Duration
	filterMetaTTL  time.Duration
	reviewsListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, catalogPageTTL, filterMetaTTL, reviewsListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		catalogPageTTL: catalogPageTTL,
		filterMetaTTL:  filterMetaTTL,
		reviewsListTTL: reviewsListTTL,
	}
}

// catalogPageKey derives a stable key from the canonical JSON of the filter.
// Identical requests hash identically, so repeat queries hit the same entry.
func catalogPageKey(filter domain.CatalogFilter) string {
	canonical, _ := json.Marshal(filter)
	sum := sha256.Sum256(canonical)
	return catalogPagePrefix + hex.EncodeToString(sum[:16])
}

// GetCatalogPage retrieves a cached catalog page for the filter
func (c *RedisCache) GetCatalogPage(ctx context.Context, filter domain.CatalogFilter) (*domain.CatalogPage, error) {
	val, err := c.client.Get(ctx, catalogPageKey(filter)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var page domain.CatalogPage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// SetCatalogPage stores a catalog page and tracks its key in the page SET
func (c *RedisCache) SetCatalogPage(ctx context.Context, filter domain.CatalogFilter, page *domain.CatalogPage) error {
	key := catalogPageKey(filter)

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog page: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.catalogPageTTL)
	pipe.SAdd(ctx, catalogPageKeysSet, key)
	pipe.Expire(ctx, catalogPageKeysSet, c.catalogPageTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateCatalogPages removes every tracked catalog page
func (c *RedisCache) InvalidateCatalogPages(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, catalogPageKeysSet).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, catalogPageKeysSet)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// GetFilterMetadata retrieves cached filter reference data
func (c *RedisCache) GetFilterMetadata(ctx context.Context) (*domain.FilterMetadata, error) {
	val, err := c.client.Get(ctx, filterMetaKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var meta domain.FilterMetadata
	if err := json.Unmarshal([]byte(val), &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// SetFilterMetadata stores filter reference data
func (c *RedisCache) SetFilterMetadata(ctx context.Context, meta *domain.FilterMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal filter metadata: %w", err)
	}

	return c.client.Set(ctx, filterMetaKey, data, c.filterMetaTTL).Err()
}

// InvalidateFilterMetadata removes the filter metadata entry
func (c *RedisCache) InvalidateFilterMetadata(ctx context.Context) error {
	return c.client.Del(ctx, filterMetaKey).Err()
}

func reviewsListKey(productID uuid.UUID, limit, offset int) string {
	return fmt.Sprintf("%s%s:%d:%d", reviewsPrefix, productID, limit, offset)
}

func reviewsKeysSet(productID uuid.UUID) string {
	return fmt.Sprintf("%skeys:%s", reviewsPrefix, productID)
}

// GetReviewsList retrieves a cached page of reviews for a product
func (c *RedisCache) GetReviewsList(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	val, err := c.client.Get(ctx, reviewsListKey(productID, limit, offset)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var reviews []*domain.Review
	if err := json.Unmarshal([]byte(val), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// SetReviewsList stores a page of reviews and tracks its key per product,
// so a new review drops only that product's cached pages
func (c *RedisCache) SetReviewsList(ctx context.Context, productID uuid.UUID, limit, offset int, reviews []*domain.Review) error {
	key := reviewsListKey(productID, limit, offset)

	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal reviews list: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.reviewsListTTL)
	pipe.SAdd(ctx, reviewsKeysSet(productID), key)
	pipe.Expire(ctx, reviewsKeysSet(productID), c.reviewsListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateReviews removes every cached reviews page for a product
func (c *RedisCache) InvalidateReviews(ctx context.Context, productID uuid.UUID) error {
	setKey := reviewsKeysSet(productID)

	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, setKey)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// InvalidateAll drops every catalog cache entry
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	if err := c.InvalidateCatalogPages(ctx); err != nil && err != redis.Nil {
		return err
	}

	if err := c.InvalidateFilterMetadata(ctx); err != nil && err != redis.Nil {
		return err
	}

	return nil
}
