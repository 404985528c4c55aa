// Package cms implements the storefront's CMS delivery client: batched
// content fetches by delivery id or key, and slot lists for category listing
// grids.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// defaultMaxResponseSize is the maximum allowed delivery API response size (10MB)
const defaultMaxResponseSize = 10 * 1024 * 1024

const defaultTimeout = 10 * time.Second

// ErrConfigMissingBaseURL indicates neither a base URL nor a hub name is set
var ErrConfigMissingBaseURL = errors.New("cms: base URL or hub name is required")

// Config holds the connection settings for the CMS delivery API.
type Config struct {
	// BaseURL points at the delivery endpoint. When empty it is derived
	// from HubName.
	BaseURL string
	HubName string

	// DefaultLocale is used when a request carries no locale or an
	// unparseable one.
	DefaultLocale string

	// SlotKeyPrefixes maps site ids to the delivery-key prefix their slot
	// lists are authored under. Sites without an entry use the site id.
	SlotKeyPrefixes map[string]string

	Timeout         time.Duration
	MaxResponseSize int64
}

// Validate checks required fields and fills defaults for optional ones.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		if c.HubName == "" {
			return ErrConfigMissingBaseURL
		}
		c.BaseURL = fmt.Sprintf("https://%s.cdn.content.amplience.net", c.HubName)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en-US"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = defaultMaxResponseSize
	}
	return nil
}

// Client talks to the CMS delivery API. It implements the ContentFetcher
// capability. Delivery endpoints are unauthenticated; the client never
// retries.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a CMS delivery client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// FetchContent retrieves the requested items in a single batched call and
// returns the ones that were found, in request order. Missing items are
// skipped, not errors.
func (c *Client) FetchContent(ctx context.Context, requests []services.ContentRequest, locale string) ([]model.Content, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	payload := fetchRequest{
		Requests: make([]requestItem, 0, len(requests)),
		Parameters: fetchParameters{
			Depth:  "all",
			Format: "inlined",
			Locale: c.normalizeLocale(locale),
		},
	}
	for _, request := range requests {
		if request.ID == "" && request.Key == "" {
			return nil, internalErrors.NewValidationError("requests", "each request needs an id or a key")
		}
		payload.Requests = append(payload.Requests, requestItem{ID: request.ID, Key: request.Key})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cms: failed to encode fetch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/content/fetch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cms: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalErrors.NewUpstreamError("cms", "fetch content", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cms: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, internalErrors.NewUpstreamError("cms", "fetch content", resp.StatusCode, nil)
	}

	var fetched fetchResponse
	if err := json.Unmarshal(respBody, &fetched); err != nil {
		return nil, internalErrors.NewUpstreamError("cms", "fetch content", 0,
			fmt.Errorf("failed to parse response: %w", err))
	}

	items := make([]model.Content, 0, len(fetched.Responses))
	for _, response := range fetched.Responses {
		if response.Content != nil {
			items = append(items, response.Content)
		}
	}
	return items, nil
}

// normalizeLocale canonicalizes a locale string, falling back to the
// configured default when it is empty or unparseable.
func (c *Client) normalizeLocale(locale string) string {
	if locale == "" {
		return c.config.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return c.config.DefaultLocale
	}
	return tag.String()
}

// Ensure Client implements the CMS-facing service interface
var _ services.ContentFetcher = (*Client)(nil)
