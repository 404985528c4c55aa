package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeSiteNotFound     ErrorCode = "SITE_NOT_FOUND"
	ErrorCodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"
	ErrorCodeContentNotFound  ErrorCode = "CONTENT_NOT_FOUND"
	ErrorCodeMappingNotFound  ErrorCode = "MAPPING_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrorCodeUpstreamFailed ErrorCode = "UPSTREAM_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendServiceError translates a service-layer error into the matching HTTP
// response: validation errors map to 400, unknown sites, categories, content
// and mappings to 404, upstream failures to 502, everything else to 500.
func SendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, internalErrors.ErrInvalidInput):
		var validationErr *internalErrors.ValidationError
		if errors.As(err, &validationErr) {
			SendValidationError(c, validationErr.Field, validationErr.Message)
			return
		}
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, internalErrors.ErrSiteNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeSiteNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrCategoryNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeCategoryNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrContentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeContentNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrMappingNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeMappingNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrUpstream):
		SendError(c, http.StatusBadGateway, ErrorCodeUpstreamFailed, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}

// SendValidationError sends a validation error with a field-level detail
func SendValidationError(c *gin.Context, field, message string) {
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
		ErrorDetail{Field: field, Message: message, Code: "VALIDATION_ERROR"})
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendWishlistUnavailableError sends the transient-notification envelope for
// a failed wishlist call. The message is written for direct display to the
// shopper; the wrapped upstream error is carried as a detail.
func SendWishlistUnavailableError(c *gin.Context, err error) {
	SendError(c, http.StatusBadGateway, ErrorCodeUpstreamFailed,
		"The wishlist service is temporarily unavailable. Please try again in a moment.",
		ErrorDetail{Message: err.Error(), Code: "UPSTREAM_ERROR"})
}
