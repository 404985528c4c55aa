// Package storefront assembles render-ready product listing pages: it owns
// the configured site registry and the service that fans out to the commerce
// and CMS backends, merges the results into a listing grid, and records
// analytics for every served page.
package storefront

import (
	"fmt"
	"sort"
	"sync"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// App owns the storefront site registry. Sites are built from configuration
// at startup and fixed for the life of the process; the first configured
// site is the default.
// It implements the services.SiteProvider interface.
type App struct {
	mu            sync.RWMutex
	sites         map[string]model.Site
	defaultSiteID string
}

// NewApp creates the site registry from the configured sites.
func NewApp(sites []model.Site) (*App, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("at least one site must be configured")
	}

	app := &App{sites: make(map[string]model.Site, len(sites))}
	for _, site := range sites {
		if site.ID == "" {
			return nil, fmt.Errorf("site id cannot be empty")
		}
		if _, exists := app.sites[site.ID]; exists {
			return nil, fmt.Errorf("duplicate site id '%s'", site.ID)
		}
		app.sites[site.ID] = site
	}
	app.defaultSiteID = sites[0].ID

	return app, nil
}

// GetSite retrieves a site by its id. An empty id selects the default site.
func (a *App) GetSite(id string) (model.Site, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if id == "" {
		id = a.defaultSiteID
	}
	site, exists := a.sites[id]
	if !exists {
		return model.Site{}, internalErrors.NewSiteNotFoundError(id)
	}
	return site, nil
}

// Sites returns all configured sites, sorted by id.
func (a *App) Sites() []model.Site {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, 0, len(a.sites))
	for id := range a.sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sites := make([]model.Site, 0, len(ids))
	for _, id := range ids {
		sites = append(sites, a.sites[id])
	}
	return sites
}

// DefaultSiteID returns the id of the default site.
func (a *App) DefaultSiteID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.defaultSiteID
}

var _ services.SiteProvider = (*App)(nil)
