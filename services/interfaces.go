package services

import (
	"context"

	"github.com/northwind-labs/storefront/model"
)

// SearchQuery describes one commerce search request: a free-text query
// and/or a category scope, plus selected refinements, sort order, and the
// product window to fetch.
type SearchQuery struct {
	Query       string              `json:"query,omitempty"`
	CategoryID  string              `json:"category_id,omitempty"`
	Refinements map[string][]string `json:"refinements,omitempty"` // attribute id -> selected values
	Sort        string              `json:"sort,omitempty"`
	Offset      int                 `json:"offset"`
	Limit       int                 `json:"limit"`
	SiteID      string              `json:"site_id,omitempty"`
	Locale      string              `json:"locale,omitempty"`
}

// RefinementValue is a single facet value with its hit count and the query
// string that toggles it on or off.
type RefinementValue struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	HitCount    int    `json:"hit_count"`
	Selected    bool   `json:"selected"`
	ToggleQuery string `json:"toggle_query,omitempty"`
}

// Refinement is a facet attribute returned alongside search hits.
// AllowMultiple controls toggle semantics: multi-select attributes append
// values, single-select attributes replace them.
type Refinement struct {
	AttributeID   string            `json:"attribute_id"`
	Label         string            `json:"label"`
	AllowMultiple bool              `json:"allow_multiple"`
	Values        []RefinementValue `json:"values"`
}

// SortingOption is one sort order offered by the commerce search API.
type SortingOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SearchResult is one page of commerce search hits with facet and sorting
// metadata.
type SearchResult struct {
	Hits           []model.Product `json:"hits"`
	Total          int             `json:"total"`
	Offset         int             `json:"offset"`
	Limit          int             `json:"limit"`
	Refinements    []Refinement    `json:"refinements,omitempty"`
	SortingOptions []SortingOption `json:"sorting_options,omitempty"`
	SelectedSort   string          `json:"selected_sort,omitempty"`
	Took           int64           `json:"took"` // milliseconds
}

// ContentRequest identifies one content item to fetch, by delivery id or by
// delivery key. Exactly one of the two must be set.
type ContentRequest struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key,omitempty"`
}

// ListingRequest describes one product-listing page request as received from
// a storefront frontend. Offset is an offset into the combined
// (content + product) sequence and is snapped to the nearest page boundary
// at or below it.
type ListingRequest struct {
	SiteID      string
	CategoryID  string
	Query       string
	Refinements map[string][]string
	Sort        string
	Offset      int
	Viewport    string
	Locale      string
}

// ListingPage is a render-ready product listing page: the enriched item
// sequence (products with CMS slots spliced in), the page-offset table for
// pagination controls, and facet values carrying toggle query strings.
type ListingPage struct {
	Site           string           `json:"site"`
	Category       *model.Category  `json:"category,omitempty"`
	Items          []model.GridItem `json:"items"`
	Total          int              `json:"total"`
	Offset         int              `json:"offset"`
	PageSize       int              `json:"page_size"`
	PageOffsets    []int            `json:"page_offsets"`
	Refinements    []Refinement     `json:"refinements,omitempty"`
	SortingOptions []SortingOption  `json:"sorting_options,omitempty"`
	SelectedSort   string           `json:"selected_sort,omitempty"`
	Viewport       string           `json:"viewport"`
	Locale         string           `json:"locale"`
	Took           int64            `json:"took"` // milliseconds
}

// ResolveRequest asks for a content item to be resolved to a renderable
// component. When Content is supplied it is resolved directly; otherwise the
// item is fetched by ID or Key first (locale-aware).
type ResolveRequest struct {
	ID      string        `json:"id,omitempty"`
	Key     string        `json:"key,omitempty"`
	Locale  string        `json:"locale,omitempty"`
	Content model.Content `json:"content,omitempty"`
}

// ResolvedContent pairs a content body with the frontend component that
// should render it. Matched is false when the schema had no registered
// mapping and the raw fallback component was chosen.
type ResolvedContent struct {
	Component string        `json:"component"`
	Matched   bool          `json:"matched"`
	Schema    string        `json:"schema,omitempty"`
	Content   model.Content `json:"content"`
}

// ProductSearcher defines the commerce search capability
type ProductSearcher interface {
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

// CategoryProvider defines the commerce category-lookup capability
type CategoryProvider interface {
	GetCategory(ctx context.Context, siteID, categoryID string) (*model.Category, error)
}

// WishlistManager defines customer wishlist operations, proxied to the
// commerce API
type WishlistManager interface {
	GetWishlist(ctx context.Context, siteID, customerID string) (*model.Wishlist, error)
	AddWishlistItem(ctx context.Context, siteID, customerID, productID string) (*model.Wishlist, error)
	RemoveWishlistItem(ctx context.Context, siteID, customerID, productID string) error
}

// ContentFetcher defines the CMS content delivery capability
type ContentFetcher interface {
	// FetchContent retrieves the requested items and returns the ones that
	// were found, in request order. Missing items are skipped, not errors.
	FetchContent(ctx context.Context, requests []ContentRequest, locale string) ([]model.Content, error)
	// FetchSlots retrieves the slot list authored for a category's listing
	// grid, sorted by position. No authored slots yields an empty slice.
	FetchSlots(ctx context.Context, siteID, categoryID, locale string) ([]model.Slot, error)
}

// ContentResolver maps fetched or supplied content to a renderable component
type ContentResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (*ResolvedContent, error)
}

// ComponentRegistry manages the schema-to-component mapping set
type ComponentRegistry interface {
	Component(schema string) (string, bool)
	Register(schema, component string) error
	Deregister(schema string) error
	Mappings() map[string]string
}

// ListingProvider assembles render-ready product listing pages
type ListingProvider interface {
	ProductListing(ctx context.Context, req ListingRequest) (*ListingPage, error)
}

// SiteProvider resolves configured storefront sites
type SiteProvider interface {
	GetSite(id string) (model.Site, error)
	Sites() []model.Site
	DefaultSiteID() string
}

// AnalyticsRecorder tracks served listings and aggregates dashboard data
type AnalyticsRecorder interface {
	Track(event model.ListingEvent) error
	Dashboard() (model.AnalyticsDashboard, error)
}
