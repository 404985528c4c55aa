package cache

import (
	"sync"
	"time"

	"github.com/northwind-labs/storefront/model"
)

const defaultMaxEntries = 10_000

// entry wraps a cached value with its expiry.
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired() bool {
	return time.Now().After(e.expiresAt)
}

// memoryStore is the in-process cache tier: mutex-guarded maps with
// per-entry expiry. Content items are dual-indexed so a lookup by delivery
// key finds items cached under their delivery id. Expired entries read as
// misses; they are removed when the store fills up or is flushed.
type memoryStore struct {
	mu         sync.RWMutex
	contents   map[string]entry[model.Content]
	contentIDs map[string]entry[string] // delivery key -> delivery id
	categories map[string]entry[*model.Category]
	slots      map[string]entry[[]model.Slot]
	maxEntries int
}

func newMemoryStore(maxEntries int) *memoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	m := &memoryStore{maxEntries: maxEntries}
	m.reset()
	return m
}

func (m *memoryStore) contentByID(locale, id string) (model.Content, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.contents[contentIDCacheKey(locale, id)]
	if !ok || e.expired() {
		return nil, false
	}
	return e.value, true
}

func (m *memoryStore) contentByKey(locale, key string) (model.Content, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.contentIDs[contentKeyCacheKey(locale, key)]
	if !ok || idx.expired() {
		return nil, false
	}
	e, ok := m.contents[contentIDCacheKey(locale, idx.value)]
	if !ok || e.expired() {
		return nil, false
	}
	return e.value, true
}

// storeContent caches an item under its delivery id and indexes it by
// delivery key when one is set. Items without a delivery id are not cached.
func (m *memoryStore) storeContent(locale string, item model.Content, ttl time.Duration) {
	id := item.DeliveryID()
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ensureRoom() {
		return
	}
	expiresAt := time.Now().Add(ttl)
	m.contents[contentIDCacheKey(locale, id)] = entry[model.Content]{value: item, expiresAt: expiresAt}
	if key := item.DeliveryKey(); key != "" {
		m.contentIDs[contentKeyCacheKey(locale, key)] = entry[string]{value: id, expiresAt: expiresAt}
	}
}

func (m *memoryStore) category(siteID, categoryID string) (*model.Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.categories[categoryCacheKey(siteID, categoryID)]
	if !ok || e.expired() {
		return nil, false
	}
	return e.value, true
}

func (m *memoryStore) storeCategory(siteID, categoryID string, category *model.Category, ttl time.Duration) {
	if category == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ensureRoom() {
		return
	}
	m.categories[categoryCacheKey(siteID, categoryID)] = entry[*model.Category]{value: category, expiresAt: time.Now().Add(ttl)}
}

func (m *memoryStore) slotList(siteID, categoryID, locale string) ([]model.Slot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.slots[slotsCacheKey(siteID, categoryID, locale)]
	if !ok || e.expired() {
		return nil, false
	}
	return e.value, true
}

func (m *memoryStore) storeSlots(siteID, categoryID, locale string, list []model.Slot, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ensureRoom() {
		return
	}
	m.slots[slotsCacheKey(siteID, categoryID, locale)] = entry[[]model.Slot]{value: list, expiresAt: time.Now().Add(ttl)}
}

func (m *memoryStore) flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// reset reinitializes all maps. Callers must hold mu for writing, except
// during construction.
func (m *memoryStore) reset() {
	m.contents = make(map[string]entry[model.Content])
	m.contentIDs = make(map[string]entry[string])
	m.categories = make(map[string]entry[*model.Category])
	m.slots = make(map[string]entry[[]model.Slot])
}

// entryCount counts live plus expired entries. Callers must hold mu.
func (m *memoryStore) entryCount() int {
	return len(m.contents) + len(m.contentIDs) + len(m.categories) + len(m.slots)
}

// ensureRoom purges expired entries once the store is full and reports
// whether another entry fits. Callers must hold mu for writing.
func (m *memoryStore) ensureRoom() bool {
	if m.entryCount() < m.maxEntries {
		return true
	}
	m.purgeExpired()
	return m.entryCount() < m.maxEntries
}

// purgeExpired drops expired entries from every map. Callers must hold mu
// for writing.
func (m *memoryStore) purgeExpired() {
	for k, e := range m.contents {
		if e.expired() {
			delete(m.contents, k)
		}
	}
	for k, e := range m.contentIDs {
		if e.expired() {
			delete(m.contentIDs, k)
		}
	}
	for k, e := range m.categories {
		if e.expired() {
			delete(m.categories, k)
		}
	}
	for k, e := range m.slots {
		if e.expired() {
			delete(m.slots, k)
		}
	}
}
