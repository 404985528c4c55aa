package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/northwind-labs/storefront/internal/storefront"
	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// ListingHandler serves the product listing grid. Query parameters: site,
// category, q, refine (repeatable, "attr:v1|v2"), sort, offset, viewport,
// locale.
func (api *API) ListingHandler(c *gin.Context) {
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			SendValidationError(c, "offset", "must be an integer, got '"+raw+"'")
			return
		}
		offset = parsed
	}

	viewport := c.DefaultQuery("viewport", model.ViewportDesktop)
	if viewport != model.ViewportDesktop && viewport != model.ViewportMobile {
		SendValidationError(c, "viewport", "must be 'desktop' or 'mobile', got '"+viewport+"'")
		return
	}

	refinements := make(map[string][]string)
	for _, raw := range c.QueryArray("refine") {
		attr, values, err := storefront.ParseRefinement(raw)
		if err != nil {
			SendServiceError(c, err)
			return
		}
		refinements[attr] = append(refinements[attr], values...)
	}

	page, err := api.listings.ProductListing(c.Request.Context(), services.ListingRequest{
		SiteID:      c.Query("site"),
		CategoryID:  c.Query("category"),
		Query:       c.Query("q"),
		Refinements: refinements,
		Sort:        c.Query("sort"),
		Offset:      offset,
		Viewport:    viewport,
		Locale:      c.Query("locale"),
	})
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
