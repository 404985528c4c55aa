package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListComponentMappingsHandler returns the registered schema-to-component
// mappings.
func (api *API) ListComponentMappingsHandler(c *gin.Context) {
	mappings := api.registry.Mappings()
	c.JSON(http.StatusOK, gin.H{"mappings": mappings, "count": len(mappings)})
}

// RegisterComponentMappingRequest defines the structure for registering a
// component mapping
type RegisterComponentMappingRequest struct {
	Schema    string `json:"schema"`
	Component string `json:"component"`
}

// RegisterComponentMappingHandler adds or replaces the component mapping for
// a content schema.
func (api *API) RegisterComponentMappingHandler(c *gin.Context) {
	var req RegisterComponentMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.registry.Register(req.Schema, req.Component); err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Component mapping registered for schema '" + req.Schema + "'",
		"schema":    req.Schema,
		"component": req.Component,
	})
}

// DeregisterComponentMappingHandler removes the component mapping for a
// content schema. Schemas are URLs; the route captures the remainder of the
// path, encoded or not.
func (api *API) DeregisterComponentMappingHandler(c *gin.Context) {
	schema := strings.TrimPrefix(c.Param("schema"), "/")
	if schema == "" {
		SendValidationError(c, "schema", "schema is required")
		return
	}

	if err := api.registry.Deregister(schema); err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Component mapping removed for schema '" + schema + "'"})
}
