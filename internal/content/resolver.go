package content

import (
	"context"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/services"
)

// Resolver pairs content items with the frontend component that renders
// them. Content supplied directly is resolved without a fetch; content
// identified by delivery id or key is fetched first.
type Resolver struct {
	registry services.ComponentRegistry
	fetcher  services.ContentFetcher
}

// NewResolver creates a resolver backed by the given registry and fetcher.
func NewResolver(registry services.ComponentRegistry, fetcher services.ContentFetcher) *Resolver {
	return &Resolver{registry: registry, fetcher: fetcher}
}

// Resolve maps a content item to its component. A schema with no registered
// mapping falls back to ComponentRaw with Matched=false, so callers always
// get something renderable.
func (r *Resolver) Resolve(ctx context.Context, req services.ResolveRequest) (*services.ResolvedContent, error) {
	content := req.Content
	if content == nil {
		if req.ID == "" && req.Key == "" {
			return nil, internalErrors.NewValidationError("request", "content, id, or key is required")
		}

		fetched, err := r.fetcher.FetchContent(ctx, []services.ContentRequest{{ID: req.ID, Key: req.Key}}, req.Locale)
		if err != nil {
			return nil, err
		}
		if len(fetched) == 0 {
			if req.Key != "" {
				return nil, internalErrors.NewContentKeyNotFoundError(req.Key)
			}
			return nil, internalErrors.NewContentNotFoundError(req.ID)
		}
		content = fetched[0]
	}

	schema := content.Schema()
	component, matched := r.registry.Component(schema)
	if !matched {
		component = ComponentRaw
	}

	return &services.ResolvedContent{
		Component: component,
		Matched:   matched,
		Schema:    schema,
		Content:   content,
	}, nil
}

// Ensure Resolver implements the resolver service interface
var _ services.ContentResolver = (*Resolver)(nil)
