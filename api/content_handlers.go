package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/northwind-labs/storefront/services"
)

// GetContentByIDHandler fetches one content item by delivery id and resolves
// it to a renderable component. Query parameters: site, locale.
func (api *API) GetContentByIDHandler(c *gin.Context) {
	_, locale, err := api.siteLocale(c)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	resolved, err := api.resolver.Resolve(c.Request.Context(), services.ResolveRequest{
		ID:     c.Param("id"),
		Locale: locale,
	})
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}

// GetContentByKeyHandler fetches one content item by delivery key and
// resolves it to a renderable component. Query parameters: key (required),
// site, locale.
func (api *API) GetContentByKeyHandler(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		SendValidationError(c, "key", "query parameter is required")
		return
	}

	_, locale, err := api.siteLocale(c)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	resolved, err := api.resolver.Resolve(c.Request.Context(), services.ResolveRequest{
		Key:    key,
		Locale: locale,
	})
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}

// ResolveContentHandler resolves a content item to a renderable component.
// The body may carry the content directly or name it by delivery id or key.
func (api *API) ResolveContentHandler(c *gin.Context) {
	var req services.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	// A fetch by id or key is locale-aware; fall back to the site default
	// when the body does not pin a locale.
	if req.Content == nil && req.Locale == "" {
		_, locale, err := api.siteLocale(c)
		if err != nil {
			SendServiceError(c, err)
			return
		}
		req.Locale = locale
	}

	resolved, err := api.resolver.Resolve(c.Request.Context(), req)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}
