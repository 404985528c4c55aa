// Package commerce implements the storefront's commerce API client: product
// search, category lookup, and customer wishlist operations, authenticated
// with a cached client-credentials token.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// defaultMaxResponseSize is the maximum allowed commerce API response size (10MB)
const defaultMaxResponseSize = 10 * 1024 * 1024

const defaultTimeout = 10 * time.Second

var (
	// ErrConfigMissingBaseURL indicates the commerce API base URL is not set
	ErrConfigMissingBaseURL = errors.New("commerce: base URL is required")

	// ErrConfigMissingClientID indicates the API client ID is not set
	ErrConfigMissingClientID = errors.New("commerce: client ID is required")

	// ErrConfigMissingClientSecret indicates the API client secret is not set
	ErrConfigMissingClientSecret = errors.New("commerce: client secret is required")
)

// Config holds the connection settings for the commerce API.
type Config struct {
	BaseURL         string
	AuthURL         string
	ClientID        string
	ClientSecret    string
	Timeout         time.Duration
	MaxResponseSize int64
}

// Validate checks required fields and fills defaults for optional ones.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.AuthURL == "" {
		c.AuthURL = c.BaseURL + "/oauth2/token"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = defaultMaxResponseSize
	}
	return nil
}

// Client talks to the commerce API. It implements the ProductSearcher,
// CategoryProvider, and WishlistManager capabilities.
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     *tokenSource
}

// NewClient creates a commerce API client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: config.Timeout}
	return &Client{
		config:     config,
		httpClient: httpClient,
		tokens:     newTokenSource(config.AuthURL, config.ClientID, config.ClientSecret, httpClient),
	}, nil
}

// ---------------------------------------------------------------------------
// Product Search
// ---------------------------------------------------------------------------

// Search runs a product search and converts the response to domain types.
// Refinement values already selected in the query are flagged on the result's
// facets.
func (c *Client) Search(ctx context.Context, query services.SearchQuery) (*services.SearchResult, error) {
	params := url.Values{}
	if query.Query != "" {
		params.Set("q", query.Query)
	}
	if query.CategoryID != "" {
		params.Set("category_id", query.CategoryID)
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.Locale != "" {
		params.Set("locale", query.Locale)
	}
	params.Set("offset", strconv.Itoa(query.Offset))
	params.Set("limit", strconv.Itoa(query.Limit))

	// Attribute order is sorted so identical queries produce identical URLs.
	attributeIDs := make([]string, 0, len(query.Refinements))
	for attributeID := range query.Refinements {
		attributeIDs = append(attributeIDs, attributeID)
	}
	sort.Strings(attributeIDs)
	for _, attributeID := range attributeIDs {
		values := query.Refinements[attributeID]
		if len(values) == 0 {
			continue
		}
		params.Add("refine", attributeID+":"+strings.Join(values, "|"))
	}

	endpoint := fmt.Sprintf("%s/sites/%s/product-search?%s",
		c.config.BaseURL, url.PathEscape(query.SiteID), params.Encode())

	body, err := c.get(ctx, "search", endpoint)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, internalErrors.NewUpstreamError("commerce", "search", 0,
			fmt.Errorf("failed to parse response: %w", err))
	}

	result := &services.SearchResult{
		Hits:         make([]model.Product, 0, len(resp.Hits)),
		Total:        resp.Total,
		Offset:       resp.Offset,
		Limit:        resp.Limit,
		SelectedSort: resp.SelectedSort,
	}
	for _, hit := range resp.Hits {
		result.Hits = append(result.Hits, hit.toProduct())
	}
	for _, refinement := range resp.Refinements {
		result.Refinements = append(result.Refinements, refinement.toRefinement(query.Refinements))
	}
	for _, option := range resp.SortingOptions {
		result.SortingOptions = append(result.SortingOptions, services.SortingOption(option))
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// GetCategory retrieves a category with its child tree. An upstream 404 maps
// to CategoryNotFoundError.
func (c *Client) GetCategory(ctx context.Context, siteID, categoryID string) (*model.Category, error) {
	if categoryID == "" {
		return nil, internalErrors.NewValidationError("category_id", "must not be empty")
	}

	endpoint := fmt.Sprintf("%s/sites/%s/categories/%s",
		c.config.BaseURL, url.PathEscape(siteID), url.PathEscape(categoryID))

	body, err := c.get(ctx, "get category", endpoint)
	if err != nil {
		var upstreamErr *internalErrors.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
			return nil, internalErrors.NewCategoryNotFoundError(categoryID, siteID)
		}
		return nil, err
	}

	var resp categoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, internalErrors.NewUpstreamError("commerce", "get category", 0,
			fmt.Errorf("failed to parse response: %w", err))
	}

	category := resp.toCategory()
	return &category, nil
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

// GetWishlist retrieves a customer's wishlist.
func (c *Client) GetWishlist(ctx context.Context, siteID, customerID string) (*model.Wishlist, error) {
	body, err := c.get(ctx, "get wishlist", c.wishlistURL(siteID, customerID))
	if err != nil {
		return nil, err
	}
	return parseWishlist(body, "get wishlist")
}

// AddWishlistItem adds a product to a customer's wishlist and returns the
// updated wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, siteID, customerID, productID string) (*model.Wishlist, error) {
	if productID == "" {
		return nil, internalErrors.NewValidationError("product_id", "must not be empty")
	}

	payload, err := json.Marshal(wishlistItemRequest{ProductID: productID, Quantity: 1})
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to encode wishlist item: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "add wishlist item", c.wishlistURL(siteID, customerID)+"/items", payload)
	if err != nil {
		return nil, err
	}
	return parseWishlist(body, "add wishlist item")
}

// RemoveWishlistItem removes a product from a customer's wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, siteID, customerID, productID string) error {
	if productID == "" {
		return internalErrors.NewValidationError("product_id", "must not be empty")
	}

	endpoint := c.wishlistURL(siteID, customerID) + "/items/" + url.PathEscape(productID)
	_, err := c.do(ctx, http.MethodDelete, "remove wishlist item", endpoint, nil)
	return err
}

func (c *Client) wishlistURL(siteID, customerID string) string {
	return fmt.Sprintf("%s/sites/%s/customers/%s/wishlist",
		c.config.BaseURL, url.PathEscape(siteID), url.PathEscape(customerID))
}

func parseWishlist(body []byte, operation string) (*model.Wishlist, error) {
	var resp wishlistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, internalErrors.NewUpstreamError("commerce", operation, 0,
			fmt.Errorf("failed to parse response: %w", err))
	}
	wishlist := resp.toWishlist()
	return &wishlist, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, operation, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, operation, endpoint, nil)
}

// do performs an authenticated request. A 401 invalidates the cached token
// and retries once with a fresh one.
func (c *Client) do(ctx context.Context, method, operation, endpoint string, payload []byte) ([]byte, error) {
	body, status, err := c.send(ctx, method, endpoint, payload)
	if err != nil {
		return nil, wrapUpstream(operation, err)
	}

	if status == http.StatusUnauthorized {
		c.tokens.invalidate()
		body, status, err = c.send(ctx, method, endpoint, payload)
		if err != nil {
			return nil, wrapUpstream(operation, err)
		}
	}

	if status >= 400 {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, internalErrors.NewUpstreamError("commerce", operation, status, errors.New(errResp.Message))
		}
		return nil, internalErrors.NewUpstreamError("commerce", operation, status, nil)
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// wrapUpstream tags transport-level failures as upstream errors without
// double-wrapping ones the token source already tagged.
func wrapUpstream(operation string, err error) error {
	var upstreamErr *internalErrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		return err
	}
	return internalErrors.NewUpstreamError("commerce", operation, 0, err)
}

// Ensure Client implements the commerce-facing service interfaces
var (
	_ services.ProductSearcher  = (*Client)(nil)
	_ services.CategoryProvider = (*Client)(nil)
	_ services.WishlistManager  = (*Client)(nil)
)
