package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FlushCacheHandler drops every cached category, content item, and slot
// list, forcing the next requests back to the upstream systems.
func (api *API) FlushCacheHandler(c *gin.Context) {
	if api.cache == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Caching is not enabled")
		return
	}

	if err := api.cache.Flush(c.Request.Context()); err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cache flushed"})
}
