package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/northwind-labs/storefront/internal/cache"
	"github.com/northwind-labs/storefront/internal/logger"
	"github.com/northwind-labs/storefront/services"
)

// defaultMaxBodySize caps request bodies; the largest legitimate payload is
// a resolve request carrying one CMS content item.
const defaultMaxBodySize int64 = 1 << 20 // 1 MB

// Dependencies carries the services the API handlers dispatch to. Cache and
// Analytics may be nil; the admin and analytics routes then report the
// feature as unavailable.
type Dependencies struct {
	Listings  services.ListingProvider
	Sites     services.SiteProvider
	Wishlists services.WishlistManager
	Resolver  services.ContentResolver
	Registry  services.ComponentRegistry
	Analytics services.AnalyticsRecorder
	Cache     *cache.Store
	Logger    *zap.Logger

	// MaxBodySize caps request bodies. Zero means the default.
	MaxBodySize int64
	// CORSAllowOrigins restricts cross-origin access. Empty allows any origin.
	CORSAllowOrigins []string
}

// API holds dependencies for API handlers.
type API struct {
	listings  services.ListingProvider
	sites     services.SiteProvider
	wishlists services.WishlistManager
	resolver  services.ContentResolver
	registry  services.ComponentRegistry
	analytics services.AnalyticsRecorder
	cache     *cache.Store
	logger    *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		listings:  deps.Listings,
		sites:     deps.Sites,
		wishlists: deps.Wishlists,
		resolver:  deps.Resolver,
		registry:  deps.Registry,
		analytics: deps.Analytics,
		cache:     deps.Cache,
		logger:    logger,
	}
}

// SetupRoutes defines all the API routes for the storefront service. The
// request id middleware runs first so the request logger can pick it up.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	apiHandler := NewAPI(deps)

	maxBodySize := deps.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	router.Use(RequestIDMiddleware())
	router.Use(logger.GinMiddleware(apiHandler.logger))
	router.Use(logger.Recovery(apiHandler.logger))
	router.Use(CORSMiddleware(deps.CORSAllowOrigins...))
	router.Use(RequestSizeLimitMiddleware(maxBodySize))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/sites", apiHandler.ListSitesHandler)
		apiRoutes.GET("/listing", apiHandler.ListingHandler)
		apiRoutes.GET("/analytics", apiHandler.GetAnalyticsHandler)

		// Content delivery and resolution routes. The bare GET resolves by
		// delivery key (?key=), the parameterized one by delivery id.
		contentRoutes := apiRoutes.Group("/content")
		{
			contentRoutes.GET("", apiHandler.GetContentByKeyHandler)
			contentRoutes.GET("/:id", apiHandler.GetContentByIDHandler)
			contentRoutes.POST("/resolve", apiHandler.ResolveContentHandler)

			// Schema-to-component mapping management. Schemas are URLs, so
			// the delete route captures the remainder of the path.
			contentRoutes.GET("/components", apiHandler.ListComponentMappingsHandler)
			contentRoutes.POST("/components", apiHandler.RegisterComponentMappingHandler)
			contentRoutes.DELETE("/components/*schema", apiHandler.DeregisterComponentMappingHandler)
		}

		// Wishlist routes, proxied to the commerce API per customer
		wishlistRoutes := apiRoutes.Group("/customers/:customerID/wishlist")
		{
			wishlistRoutes.GET("", apiHandler.GetWishlistHandler)
			wishlistRoutes.POST("/items", apiHandler.AddWishlistItemHandler)
			wishlistRoutes.DELETE("/items/:productID", apiHandler.RemoveWishlistItemHandler)
		}

		// Admin routes
		apiRoutes.POST("/admin/cache/flush", apiHandler.FlushCacheHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "storefront",
		"timestamp": time.Now().Unix(),
	})
}

// siteLocale resolves the site and locale for a request from its query
// parameters, falling back to the default site and the site's default
// locale.
func (api *API) siteLocale(c *gin.Context) (siteID, locale string, err error) {
	site, err := api.sites.GetSite(c.Query("site"))
	if err != nil {
		return "", "", err
	}
	locale = c.Query("locale")
	if locale == "" {
		locale = site.DefaultLocale
	}
	return site.ID, locale, nil
}
