package cache

import (
	"context"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// cachedContents caches CMS content and slot lookups. Items are cached per
// locale under both delivery id and delivery key; missing items and failed
// fetches are not cached.
type cachedContents struct {
	store    *Store
	upstream services.ContentFetcher
}

// WrapContentFetcher layers the cache over a content fetcher. When the
// cache is disabled the fetcher is returned unchanged.
func (s *Store) WrapContentFetcher(upstream services.ContentFetcher) services.ContentFetcher {
	if !s.config.Enabled {
		return upstream
	}
	return &cachedContents{store: s, upstream: upstream}
}

// FetchContent serves what it can from the cache tiers and fetches the
// misses upstream in a single batch, keeping the combined result in request
// order.
func (c *cachedContents) FetchContent(ctx context.Context, requests []services.ContentRequest, locale string) ([]model.Content, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	found := make(map[int]model.Content, len(requests))
	var misses []services.ContentRequest
	var missIndex []int

	for i, req := range requests {
		if item, ok := c.lookup(ctx, req, locale); ok {
			found[i] = item
			continue
		}
		misses = append(misses, req)
		missIndex = append(missIndex, i)
	}

	if len(misses) > 0 {
		fetched, err := c.upstream.FetchContent(ctx, misses, locale)
		if err != nil {
			return nil, err
		}
		c.matchFetched(ctx, fetched, misses, missIndex, locale, found)
	}

	results := make([]model.Content, 0, len(found))
	for i := range requests {
		if item, ok := found[i]; ok {
			results = append(results, item)
		}
	}
	return results, nil
}

// FetchSlots serves a category's slot list from cache. Empty slot lists are
// cached like any other result.
func (c *cachedContents) FetchSlots(ctx context.Context, siteID, categoryID, locale string) ([]model.Slot, error) {
	if slots, ok := c.store.memory.slotList(siteID, categoryID, locale); ok {
		return slots, nil
	}

	ttl := c.store.config.ContentTTL
	key := slotsCacheKey(siteID, categoryID, locale)
	var cached []model.Slot
	if c.store.redisGet(ctx, key, &cached) {
		c.store.memory.storeSlots(siteID, categoryID, locale, cached, ttl)
		return cached, nil
	}

	slots, err := c.upstream.FetchSlots(ctx, siteID, categoryID, locale)
	if err != nil {
		return nil, err
	}

	c.store.memory.storeSlots(siteID, categoryID, locale, slots, ttl)
	c.store.redisSet(ctx, key, slots, ttl)
	return slots, nil
}

// lookup serves one request from the cache tiers, backfilling the in-process
// tier on a redis hit.
func (c *cachedContents) lookup(ctx context.Context, req services.ContentRequest, locale string) (model.Content, bool) {
	switch {
	case req.ID != "":
		if item, ok := c.store.memory.contentByID(locale, req.ID); ok {
			return item, true
		}
		var item model.Content
		if c.store.redisGet(ctx, contentIDCacheKey(locale, req.ID), &item) {
			c.store.memory.storeContent(locale, item, c.store.config.ContentTTL)
			return item, true
		}
	case req.Key != "":
		if item, ok := c.store.memory.contentByKey(locale, req.Key); ok {
			return item, true
		}
		var item model.Content
		if c.store.redisGet(ctx, contentKeyCacheKey(locale, req.Key), &item) {
			c.store.memory.storeContent(locale, item, c.store.config.ContentTTL)
			return item, true
		}
	}
	return nil, false
}

// matchFetched pairs fetched items with the requests that produced them and
// caches each one. The upstream returns found items in request order with
// missing ones skipped, so every item matches the first remaining miss that
// names its delivery id or key.
func (c *cachedContents) matchFetched(ctx context.Context, fetched []model.Content, misses []services.ContentRequest, missIndex []int, locale string, found map[int]model.Content) {
	next := 0
	for _, item := range fetched {
		for next < len(misses) && !requestMatches(misses[next], item) {
			next++
		}
		if next >= len(misses) {
			break
		}
		found[missIndex[next]] = item
		c.cacheItem(ctx, item, locale)
		next++
	}
}

// cacheItem stores a fetched item in both tiers, under its delivery id and,
// when present, its delivery key.
func (c *cachedContents) cacheItem(ctx context.Context, item model.Content, locale string) {
	ttl := c.store.config.ContentTTL
	c.store.memory.storeContent(locale, item, ttl)
	if id := item.DeliveryID(); id != "" {
		c.store.redisSet(ctx, contentIDCacheKey(locale, id), item, ttl)
	}
	if key := item.DeliveryKey(); key != "" {
		c.store.redisSet(ctx, contentKeyCacheKey(locale, key), item, ttl)
	}
}

func requestMatches(req services.ContentRequest, item model.Content) bool {
	if req.ID != "" {
		return req.ID == item.DeliveryID()
	}
	return req.Key != "" && req.Key == item.DeliveryKey()
}

var _ services.ContentFetcher = (*cachedContents)(nil)
