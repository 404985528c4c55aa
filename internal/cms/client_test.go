package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Run("base URL derived from hub name", func(t *testing.T) {
		config := Config{HubName: "northwind"}
		require.NoError(t, config.Validate())
		assert.Equal(t, "https://northwind.cdn.content.amplience.net", config.BaseURL)
		assert.Equal(t, "en-US", config.DefaultLocale)
		assert.True(t, config.Timeout > 0)
	})

	t.Run("explicit base URL wins", func(t *testing.T) {
		config := Config{BaseURL: "https://cdn.example.com/", HubName: "northwind"}
		require.NoError(t, config.Validate())
		assert.Equal(t, "https://cdn.example.com", config.BaseURL)
	})

	t.Run("missing base URL and hub name", func(t *testing.T) {
		config := Config{}
		assert.ErrorIs(t, config.Validate(), ErrConfigMissingBaseURL)
	})
}

// ---------------------------------------------------------------------------
// FetchContent Tests
// ---------------------------------------------------------------------------

func TestClient_FetchContent(t *testing.T) {
	t.Run("batched fetch keeps request order and skips missing items", func(t *testing.T) {
		var gotRequest fetchRequest
		server := newDeliveryServer(t, func(w http.ResponseWriter, r *http.Request, req fetchRequest) {
			gotRequest = req
			json.NewEncoder(w).Encode(fetchResponse{
				Responses: []contentResponse{
					{Content: model.Content{"_meta": map[string]interface{}{"deliveryId": "c-1"}}},
					{Error: &responseError{Type: "CONTENT_NOT_FOUND", Message: "no such item"}},
					{Content: model.Content{"_meta": map[string]interface{}{"deliveryId": "c-3"}}},
				},
			})
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		items, err := client.FetchContent(context.Background(), []services.ContentRequest{
			{ID: "c-1"},
			{Key: "missing/key"},
			{ID: "c-3"},
		}, "en-us")
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, "c-1", items[0].DeliveryID())
		assert.Equal(t, "c-3", items[1].DeliveryID())

		require.Len(t, gotRequest.Requests, 3)
		assert.Equal(t, "c-1", gotRequest.Requests[0].ID)
		assert.Equal(t, "missing/key", gotRequest.Requests[1].Key)
		assert.Equal(t, "all", gotRequest.Parameters.Depth)
		assert.Equal(t, "inlined", gotRequest.Parameters.Format)
		assert.Equal(t, "en-US", gotRequest.Parameters.Locale) // canonicalized
	})

	t.Run("invalid locale falls back to the default", func(t *testing.T) {
		var gotLocale string
		server := newDeliveryServer(t, func(w http.ResponseWriter, r *http.Request, req fetchRequest) {
			gotLocale = req.Parameters.Locale
			json.NewEncoder(w).Encode(fetchResponse{})
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "not a locale!!")
		require.NoError(t, err)
		assert.Equal(t, "en-US", gotLocale)
	})

	t.Run("empty request list is a no-op", func(t *testing.T) {
		client := newTestClient(t, "https://cdn.example.com")

		items, err := client.FetchContent(context.Background(), nil, "en-US")
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("request without id or key is rejected", func(t *testing.T) {
		client := newTestClient(t, "https://cdn.example.com")

		_, err := client.FetchContent(context.Background(), []services.ContentRequest{{}}, "en-US")
		assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
	})

	t.Run("upstream failure surfaces as upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.FetchContent(context.Background(), []services.ContentRequest{{ID: "c-1"}}, "en-US")
		assert.ErrorIs(t, err, internalErrors.ErrUpstream)

		var upstreamErr *internalErrors.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, "cms", upstreamErr.System)
		assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	})
}

// ---------------------------------------------------------------------------
// FetchSlots Tests
// ---------------------------------------------------------------------------

func TestClient_FetchSlots(t *testing.T) {
	t.Run("slots are fetched by key and sorted by position", func(t *testing.T) {
		var gotKey string
		server := newDeliveryServer(t, func(w http.ResponseWriter, r *http.Request, req fetchRequest) {
			require.Len(t, req.Requests, 1)
			gotKey = req.Requests[0].Key
			json.NewEncoder(w).Encode(fetchResponse{
				Responses: []contentResponse{
					{Content: model.Content{
						"_meta": map[string]interface{}{"schema": "https://cms.example.com/slot-list"},
						"slots": []interface{}{
							map[string]interface{}{
								"position": 6, "rows": 2, "cols": 1,
								"content": map[string]interface{}{"headline": "Sale"},
							},
							map[string]interface{}{
								"position": 0, "rows": 1, "cols": 2,
								"content": map[string]interface{}{"headline": "New in"},
							},
							// No position: discarded.
							map[string]interface{}{
								"rows": 1, "cols": 1,
								"content": map[string]interface{}{"headline": "Broken"},
							},
							// No content: discarded.
							map[string]interface{}{"position": 3, "rows": 1, "cols": 1},
						},
					}},
				},
			})
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		slots, err := client.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
		require.NoError(t, err)

		assert.Equal(t, "grid-slots/outdoor/category/mens", gotKey)
		require.Len(t, slots, 2)
		assert.Equal(t, 0, slots[0].Position)
		assert.Equal(t, 2, slots[0].Cols)
		assert.Equal(t, 6, slots[1].Position)
		assert.Equal(t, "Sale", slots[1].Content["headline"])
	})

	t.Run("site without a prefix entry uses the site id", func(t *testing.T) {
		var gotKey string
		server := newDeliveryServer(t, func(w http.ResponseWriter, r *http.Request, req fetchRequest) {
			gotKey = req.Requests[0].Key
			json.NewEncoder(w).Encode(fetchResponse{})
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.FetchSlots(context.Background(), "unknown-site", "mens", "en-US")
		require.NoError(t, err)
		assert.Equal(t, "unknown-site/category/mens", gotKey)
	})

	t.Run("category without a slot list yields an empty slice", func(t *testing.T) {
		server := newDeliveryServer(t, func(w http.ResponseWriter, r *http.Request, req fetchRequest) {
			json.NewEncoder(w).Encode(fetchResponse{
				Responses: []contentResponse{
					{Error: &responseError{Type: "CONTENT_NOT_FOUND"}},
				},
			})
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		slots, err := client.FetchSlots(context.Background(), "outdoor", "empty-cat", "en-US")
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})

	t.Run("delivery failure propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.FetchSlots(context.Background(), "outdoor", "mens", "en-US")
		assert.ErrorIs(t, err, internalErrors.ErrUpstream)
	})
}

func TestParseSlots_MalformedList(t *testing.T) {
	tests := []struct {
		name    string
		content model.Content
		want    int
	}{
		{name: "no slots field", content: model.Content{"headline": "x"}, want: 0},
		{name: "slots is not a list", content: model.Content{"slots": "oops"}, want: 0},
		{
			name: "valid entry among junk",
			content: model.Content{"slots": []interface{}{
				"junk",
				map[string]interface{}{"position": 1, "content": map[string]interface{}{"a": "b"}},
			}},
			want: 0, // a junk entry poisons the whole list decode
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSlots(tt.content)
			assert.Len(t, got, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:       serverURL,
		DefaultLocale: "en-US",
		SlotKeyPrefixes: map[string]string{
			"outdoor": "grid-slots/outdoor",
		},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func newDeliveryServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, req fetchRequest)) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/content/fetch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req fetchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, r, req)
	})
	return httptest.NewServer(mux)
}
