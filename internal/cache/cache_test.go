package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

type stubCategoryProvider struct {
	calls    int
	category *model.Category
	err      error // returned on the next call, then cleared
}

func (s *stubCategoryProvider) GetCategory(_ context.Context, _, _ string) (*model.Category, error) {
	s.calls++
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}
	return s.category, nil
}

type stubContentFetcher struct {
	contentCalls int
	slotCalls    int
	gotRequests  [][]services.ContentRequest
	items        []model.Content
	slots        []model.Slot
	err          error
}

func (s *stubContentFetcher) FetchContent(_ context.Context, requests []services.ContentRequest, _ string) ([]model.Content, error) {
	s.contentCalls++
	s.gotRequests = append(s.gotRequests, requests)
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Content
	for _, req := range requests {
		for _, item := range s.items {
			if (req.ID != "" && item.DeliveryID() == req.ID) ||
				(req.Key != "" && item.DeliveryKey() == req.Key) {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

func (s *stubContentFetcher) FetchSlots(_ context.Context, _, _, _ string) ([]model.Slot, error) {
	s.slotCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.slots, nil
}

func contentItem(id, key string) model.Content {
	meta := map[string]interface{}{
		"deliveryId": id,
		"schema":     "https://cms.northwind.dev/schema/simple-banner.json",
	}
	if key != "" {
		meta["deliveryKey"] = key
	}
	return model.Content{"_meta": meta, "headline": "Sale " + id}
}

func newTestStore(t *testing.T, config Config) *Store {
	t.Helper()
	config.Enabled = true
	return New(config, nil, zap.NewNop())
}

// ---------------------------------------------------------------------------
// Wrapper Tests
// ---------------------------------------------------------------------------

func TestWrap_DisabledReturnsUpstreamUnchanged(t *testing.T) {
	store := New(Config{Enabled: false}, nil, zap.NewNop())

	categories := &stubCategoryProvider{}
	assert.Same(t, categories, store.WrapCategoryProvider(categories))

	contents := &stubContentFetcher{}
	assert.Same(t, contents, store.WrapContentFetcher(contents))
}

func TestWrap_EnabledDecorates(t *testing.T) {
	store := newTestStore(t, Config{})

	categories := &stubCategoryProvider{}
	assert.NotSame(t, categories, store.WrapCategoryProvider(categories))

	contents := &stubContentFetcher{}
	assert.NotSame(t, contents, store.WrapContentFetcher(contents))
}

// ---------------------------------------------------------------------------
// Category Cache Tests
// ---------------------------------------------------------------------------

func TestCachedCategories_SecondLookupServedFromCache(t *testing.T) {
	upstream := &stubCategoryProvider{category: &model.Category{ID: "mens", Name: "Men"}}
	provider := newTestStore(t, Config{}).WrapCategoryProvider(upstream)

	first, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, "Men", second.Name)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedCategories_SiteScoped(t *testing.T) {
	upstream := &stubCategoryProvider{category: &model.Category{ID: "mens"}}
	provider := newTestStore(t, Config{}).WrapCategoryProvider(upstream)

	_, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	_, err = provider.GetCategory(context.Background(), "electronics", "mens")
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.calls)
}

func TestCachedCategories_FailedLookupNotCached(t *testing.T) {
	upstream := &stubCategoryProvider{
		category: &model.Category{ID: "mens"},
		err:      errors.New("commerce down"),
	}
	provider := newTestStore(t, Config{}).WrapCategoryProvider(upstream)

	_, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.Error(t, err)

	category, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedCategories_ExpiredEntryRefetched(t *testing.T) {
	upstream := &stubCategoryProvider{category: &model.Category{ID: "mens"}}
	provider := newTestStore(t, Config{CategoryTTL: time.Millisecond}).WrapCategoryProvider(upstream)

	_, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

// ---------------------------------------------------------------------------
// Content Cache Tests
// ---------------------------------------------------------------------------

func TestCachedContents_OnlyMissesFetchedUpstream(t *testing.T) {
	upstream := &stubContentFetcher{items: []model.Content{
		contentItem("c-1", ""),
		contentItem("c-2", ""),
	}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	first, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "en-US")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{
		{ID: "c-1"},
		{ID: "c-2"},
	}, "en-US")
	require.NoError(t, err)

	require.Len(t, second, 2)
	assert.Equal(t, "c-1", second[0].DeliveryID())
	assert.Equal(t, "c-2", second[1].DeliveryID())

	require.Equal(t, 2, upstream.contentCalls)
	require.Len(t, upstream.gotRequests[1], 1)
	assert.Equal(t, "c-2", upstream.gotRequests[1][0].ID)
}

func TestCachedContents_KeyAndIDShareOneEntry(t *testing.T) {
	upstream := &stubContentFetcher{items: []model.Content{contentItem("c-9", "homepage/hero")}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	byKey, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{Key: "homepage/hero"}}, "en-US")
	require.NoError(t, err)
	require.Len(t, byKey, 1)

	byID, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-9"}}, "en-US")
	require.NoError(t, err)
	require.Len(t, byID, 1)

	byKeyAgain, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{Key: "homepage/hero"}}, "en-US")
	require.NoError(t, err)
	require.Len(t, byKeyAgain, 1)

	assert.Equal(t, 1, upstream.contentCalls)
}

func TestCachedContents_MissingItemsNotCached(t *testing.T) {
	upstream := &stubContentFetcher{items: []model.Content{contentItem("c-1", "")}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	requests := []services.ContentRequest{{ID: "c-1"}, {ID: "ghost"}}

	first, err := fetcher.FetchContent(context.Background(), requests, "en-US")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := fetcher.FetchContent(context.Background(), requests, "en-US")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "c-1", second[0].DeliveryID())

	require.Equal(t, 2, upstream.contentCalls)
	require.Len(t, upstream.gotRequests[1], 1)
	assert.Equal(t, "ghost", upstream.gotRequests[1][0].ID)
}

func TestCachedContents_LocaleScoped(t *testing.T) {
	upstream := &stubContentFetcher{items: []model.Content{contentItem("c-1", "")}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	_, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "en-US")
	require.NoError(t, err)
	_, err = fetcher.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "de-DE")
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.contentCalls)
}

func TestCachedContents_UpstreamFailurePropagates(t *testing.T) {
	upstream := &stubContentFetcher{err: errors.New("cms down")}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	_, err := fetcher.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "en-US")
	assert.Error(t, err)

	_, err = fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Slot Cache Tests
// ---------------------------------------------------------------------------

func TestCachedContents_SlotListCachedPerCategory(t *testing.T) {
	upstream := &stubContentFetcher{slots: []model.Slot{
		{Position: 0, Rows: 1, Cols: 2, Content: contentItem("c-1", "")},
	}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	first, err := fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, upstream.slotCalls)

	_, err = fetcher.FetchSlots(context.Background(), "outdoor", "womens", "en-US")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.slotCalls)
}

func TestCachedContents_EmptySlotListCached(t *testing.T) {
	upstream := &stubContentFetcher{slots: []model.Slot{}}
	fetcher := newTestStore(t, Config{}).WrapContentFetcher(upstream)

	first, err := fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)
	assert.Empty(t, second)

	assert.Equal(t, 1, upstream.slotCalls)
}

// ---------------------------------------------------------------------------
// Flush Tests
// ---------------------------------------------------------------------------

func TestStore_FlushDropsCachedEntries(t *testing.T) {
	store := newTestStore(t, Config{})
	categoriesUpstream := &stubCategoryProvider{category: &model.Category{ID: "mens"}}
	contentsUpstream := &stubContentFetcher{slots: []model.Slot{}}

	provider := store.WrapCategoryProvider(categoriesUpstream)
	fetcher := store.WrapContentFetcher(contentsUpstream)

	_, err := provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	_, err = fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)

	require.NoError(t, store.Flush(context.Background()))

	_, err = provider.GetCategory(context.Background(), "outdoor", "mens")
	require.NoError(t, err)
	_, err = fetcher.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
	require.NoError(t, err)

	assert.Equal(t, 2, categoriesUpstream.calls)
	assert.Equal(t, 2, contentsUpstream.slotCalls)
}

// ---------------------------------------------------------------------------
// Memory Store Tests
// ---------------------------------------------------------------------------

func TestMemoryStore_FullStoreDropsNewEntries(t *testing.T) {
	m := newMemoryStore(2)
	m.storeCategory("site", "a", &model.Category{ID: "a"}, time.Minute)
	m.storeCategory("site", "b", &model.Category{ID: "b"}, time.Minute)
	m.storeCategory("site", "c", &model.Category{ID: "c"}, time.Minute)

	_, ok := m.category("site", "c")
	assert.False(t, ok, "entry stored past the cap")

	_, ok = m.category("site", "a")
	assert.True(t, ok)
}

func TestMemoryStore_FullStorePurgesExpiredFirst(t *testing.T) {
	m := newMemoryStore(2)
	m.storeCategory("site", "a", &model.Category{ID: "a"}, time.Millisecond)
	m.storeCategory("site", "b", &model.Category{ID: "b"}, time.Minute)

	time.Sleep(5 * time.Millisecond)
	m.storeCategory("site", "c", &model.Category{ID: "c"}, time.Minute)

	_, ok := m.category("site", "c")
	assert.True(t, ok, "expired entry was not evicted to make room")

	_, ok = m.category("site", "a")
	assert.False(t, ok)
}

func TestMemoryStore_ContentDualIndex(t *testing.T) {
	m := newMemoryStore(0)
	m.storeContent("en-US", contentItem("c-1", "homepage/hero"), time.Minute)

	byID, ok := m.contentByID("en-US", "c-1")
	require.True(t, ok)
	assert.Equal(t, "homepage/hero", byID.DeliveryKey())

	byKey, ok := m.contentByKey("en-US", "homepage/hero")
	require.True(t, ok)
	assert.Equal(t, "c-1", byKey.DeliveryID())

	_, ok = m.contentByKey("de-DE", "homepage/hero")
	assert.False(t, ok)
}
