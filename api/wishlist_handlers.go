package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/model"
)

// wishlistSite resolves the commerce site for a wishlist request.
func (api *API) wishlistSite(c *gin.Context) (model.Site, bool) {
	site, err := api.sites.GetSite(c.Query("site"))
	if err != nil {
		SendServiceError(c, err)
		return model.Site{}, false
	}
	return site, true
}

// GetWishlistHandler returns a customer's wishlist from the commerce API.
func (api *API) GetWishlistHandler(c *gin.Context) {
	site, ok := api.wishlistSite(c)
	if !ok {
		return
	}

	wishlist, err := api.wishlists.GetWishlist(c.Request.Context(), site.CommerceSiteID, c.Param("customerID"))
	if err != nil {
		if errors.Is(err, internalErrors.ErrUpstream) {
			SendWishlistUnavailableError(c, err)
			return
		}
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wishlist)
}

// AddWishlistItemRequest defines the structure for adding a wishlist item
type AddWishlistItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddWishlistItemHandler adds a product to a customer's wishlist. The
// mutation is proxied straight to the commerce API; a failed call surfaces
// as a transient 502 and leaves no local state behind.
func (api *API) AddWishlistItemHandler(c *gin.Context) {
	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if req.ProductID == "" {
		SendValidationError(c, "product_id", "product_id is required")
		return
	}

	site, ok := api.wishlistSite(c)
	if !ok {
		return
	}

	wishlist, err := api.wishlists.AddWishlistItem(c.Request.Context(), site.CommerceSiteID, c.Param("customerID"), req.ProductID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrUpstream) {
			SendWishlistUnavailableError(c, err)
			return
		}
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wishlist)
}

// RemoveWishlistItemHandler removes a product from a customer's wishlist.
func (api *API) RemoveWishlistItemHandler(c *gin.Context) {
	site, ok := api.wishlistSite(c)
	if !ok {
		return
	}

	productID := c.Param("productID")
	err := api.wishlists.RemoveWishlistItem(c.Request.Context(), site.CommerceSiteID, c.Param("customerID"), productID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrUpstream) {
			SendWishlistUnavailableError(c, err)
			return
		}
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product '" + productID + "' removed from wishlist"})
}
