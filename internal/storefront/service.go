package storefront

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/northwind-labs/storefront/internal/grid"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

const (
	defaultPageSize       = 12
	defaultMobilePageSize = 8
)

// Config holds listing grid settings.
type Config struct {
	PageSize       int
	MobilePageSize int
}

// Service assembles product listing pages. For each request it resolves the
// site, fans out to the commerce and CMS backends, merges hits and content
// slots into one grid sequence, and fills in pagination and refinement
// metadata.
// It implements the services.ListingProvider interface.
type Service struct {
	config     Config
	sites      services.SiteProvider
	searcher   services.ProductSearcher
	categories services.CategoryProvider
	contents   services.ContentFetcher
	analytics  services.AnalyticsRecorder
	logger     *zap.Logger
}

// NewService creates the listing service. analytics and logger may be nil.
func NewService(config Config, sites services.SiteProvider, searcher services.ProductSearcher, categories services.CategoryProvider, contents services.ContentFetcher, analytics services.AnalyticsRecorder, logger *zap.Logger) *Service {
	if config.PageSize <= 0 {
		config.PageSize = defaultPageSize
	}
	if config.MobilePageSize <= 0 {
		config.MobilePageSize = defaultMobilePageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config:     config,
		sites:      sites,
		searcher:   searcher,
		categories: categories,
		contents:   contents,
		analytics:  analytics,
		logger:     logger,
	}
}

// ProductListing builds one render-ready listing page.
//
// The category lookup, the commerce search, and the CMS slot fetch are
// issued together and awaited jointly; the first error cancels the rest. A
// failed slot fetch is downgraded to a logged warning with an empty slot
// list, so a CMS outage never takes down the listing.
func (s *Service) ProductListing(ctx context.Context, req services.ListingRequest) (*services.ListingPage, error) {
	start := time.Now()

	site, err := s.sites.GetSite(req.SiteID)
	if err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = site.DefaultLocale
	}
	mobile := req.Viewport == model.ViewportMobile
	viewport := model.ViewportDesktop
	if mobile {
		viewport = model.ViewportMobile
	}
	pageSize := s.config.PageSize
	if mobile {
		pageSize = s.config.MobilePageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		category *model.Category
		result   *services.SearchResult
		slots    []model.Slot
	)

	g, gctx := errgroup.WithContext(ctx)

	if req.CategoryID != "" {
		g.Go(func() error {
			found, err := s.categories.GetCategory(gctx, site.CommerceSiteID, req.CategoryID)
			if err != nil {
				return err
			}
			category = found
			return nil
		})

		g.Go(func() error {
			list, err := s.contents.FetchSlots(gctx, site.ID, req.CategoryID, locale)
			if err != nil {
				s.logger.Warn("slot fetch failed, rendering listing without content slots",
					zap.String("site", site.ID),
					zap.String("category", req.CategoryID),
					zap.Error(err))
				return nil
			}
			slots = list
			return nil
		})
	}

	g.Go(func() error {
		found, err := s.searcher.Search(gctx, services.SearchQuery{
			Query:       req.Query,
			CategoryID:  req.CategoryID,
			Refinements: req.Refinements,
			Sort:        req.Sort,
			Offset:      offset,
			Limit:       pageSize,
			SiteID:      site.CommerceSiteID,
			Locale:      locale,
		})
		if err != nil {
			return err
		}
		result = found
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	offsets := grid.PageOffsets(pageSize, result.Total, slots, mobile)
	items := grid.Interleave(result.Hits, offset, pageSize, slots, offsets, mobile)

	// Snap the reported offset to the page boundary at or below the request.
	snapped := offset
	if len(offsets) > 0 {
		snapped = offsets[grid.PageFor(offsets, offset)]
	}

	took := time.Since(start)
	page := &services.ListingPage{
		Site:           site.ID,
		Category:       category,
		Items:          items,
		Total:          result.Total,
		Offset:         snapped,
		PageSize:       pageSize,
		PageOffsets:    offsets,
		Refinements:    s.fillToggleQueries(req, result.Refinements),
		SortingOptions: result.SortingOptions,
		SelectedSort:   result.SelectedSort,
		Viewport:       viewport,
		Locale:         locale,
		Took:           took.Milliseconds(),
	}

	s.track(site.ID, req, viewport, result.Total, len(slots), took)

	return page, nil
}

// fillToggleQueries computes, for every refinement value, the listing query
// that results from toggling that value on or off.
func (s *Service) fillToggleQueries(req services.ListingRequest, refinements []services.Refinement) []services.Refinement {
	if len(refinements) == 0 {
		return refinements
	}

	out := make([]services.Refinement, len(refinements))
	for i, refinement := range refinements {
		values := make([]services.RefinementValue, len(refinement.Values))
		for j, value := range refinement.Values {
			toggled := ToggleRefinement(req.Refinements, refinement.AttributeID, value.Value, refinement.AllowMultiple)
			values[j] = value
			values[j].ToggleQuery = listingQuery(req, toggled)
		}
		out[i] = refinement
		out[i].Values = values
	}
	return out
}

// listingQuery renders the request parameters for a listing with the given
// refinement selection. The offset is reset to the first page.
func listingQuery(req services.ListingRequest, selected map[string][]string) string {
	params := url.Values{}
	if req.SiteID != "" {
		params.Set("site", req.SiteID)
	}
	if req.CategoryID != "" {
		params.Set("category", req.CategoryID)
	}
	if req.Query != "" {
		params.Set("q", req.Query)
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	if req.Viewport == model.ViewportMobile {
		params.Set("viewport", req.Viewport)
	}
	if req.Locale != "" {
		params.Set("locale", req.Locale)
	}
	for _, pair := range EncodeRefinements(selected) {
		params.Add("refine", pair)
	}
	return params.Encode()
}

// track records the served listing without blocking the response.
func (s *Service) track(siteID string, req services.ListingRequest, viewport string, total, slotCount int, took time.Duration) {
	if s.analytics == nil {
		return
	}

	event := model.ListingEvent{
		Site:         siteID,
		Query:        req.Query,
		CategoryID:   req.CategoryID,
		Viewport:     viewport,
		ResultCount:  total,
		SlotCount:    slotCount,
		ResponseTime: took,
	}
	go func() {
		if err := s.analytics.Track(event); err != nil {
			s.logger.Warn("failed to track listing event", zap.Error(err))
		}
	}()
}

var _ services.ListingProvider = (*Service)(nil)
