package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftfolio/cms/internal/models"
	"github.com/redis/go-redis/v9"
)

// listTTL bounds how stale a cached catalog listing may get; every write
// path invalidates explicitly anyway.
const listTTL = 5 * time.Minute

// Catalog caches per-context media listings. All methods are safe to call
// on a nil receiver, so the cache is strictly optional at runtime.
type Catalog struct {
	client *redis.Client
}

func NewCatalog(addr, password string, db int) (*Catalog, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Catalog{client: client}, nil
}

func (c *Catalog) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func listKey(pageContext string) string {
	if pageContext == "" {
		pageContext = "*all*"
	}
	return "media:list:" + pageContext
}

// GetList returns the cached listing for a context, or (nil, nil) on miss.
func (c *Catalog) GetList(ctx context.Context, pageContext string) ([]models.MediaAsset, error) {
	if c == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, listKey(pageContext)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var assets []models.MediaAsset
	if err := json.Unmarshal([]byte(data), &assets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}

	return assets, nil
}

func (c *Catalog) SetList(ctx context.Context, pageContext string, assets []models.MediaAsset) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if err := c.client.Set(ctx, listKey(pageContext), data, listTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Invalidate drops the listing for the given context and the unscoped
// listing, which includes every context.
func (c *Catalog) Invalidate(ctx context.Context, pageContext string) error {
	if c == nil {
		return nil
	}

	keys := []string{listKey("")}
	if pageContext != "" {
		keys = append(keys, listKey(pageContext))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
