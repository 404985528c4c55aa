package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListSitesHandler returns the configured storefront sites.
func (api *API) ListSitesHandler(c *gin.Context) {
	sites := api.sites.Sites()
	c.JSON(http.StatusOK, gin.H{
		"sites":        sites,
		"count":        len(sites),
		"default_site": api.sites.DefaultSiteID(),
	})
}
