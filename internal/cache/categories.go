package cache

import (
	"context"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// cachedCategories caches category lookups in front of the commerce API.
// Failed lookups, including unknown categories, are not cached.
type cachedCategories struct {
	store    *Store
	upstream services.CategoryProvider
}

// WrapCategoryProvider layers the cache over a category provider. When the
// cache is disabled the provider is returned unchanged.
func (s *Store) WrapCategoryProvider(upstream services.CategoryProvider) services.CategoryProvider {
	if !s.config.Enabled {
		return upstream
	}
	return &cachedCategories{store: s, upstream: upstream}
}

func (c *cachedCategories) GetCategory(ctx context.Context, siteID, categoryID string) (*model.Category, error) {
	if category, ok := c.store.memory.category(siteID, categoryID); ok {
		return category, nil
	}

	ttl := c.store.config.CategoryTTL
	key := categoryCacheKey(siteID, categoryID)
	var cached model.Category
	if c.store.redisGet(ctx, key, &cached) {
		c.store.memory.storeCategory(siteID, categoryID, &cached, ttl)
		return &cached, nil
	}

	category, err := c.upstream.GetCategory(ctx, siteID, categoryID)
	if err != nil {
		return nil, err
	}

	c.store.memory.storeCategory(siteID, categoryID, category, ttl)
	c.store.redisSet(ctx, key, category, ttl)
	return category, nil
}

var _ services.CategoryProvider = (*cachedCategories)(nil)
