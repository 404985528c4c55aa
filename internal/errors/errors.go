package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrSiteNotFound is returned when a storefront site is not configured
	ErrSiteNotFound = errors.New("site not found")

	// ErrCategoryNotFound is returned when the commerce API reports an unknown category
	ErrCategoryNotFound = errors.New("category not found")

	// ErrContentNotFound is returned when a CMS content item cannot be located
	ErrContentNotFound = errors.New("content not found")

	// ErrMappingNotFound is returned when a schema has no registered component mapping
	ErrMappingNotFound = errors.New("component mapping not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream is returned when an external collaborator call fails
	ErrUpstream = errors.New("upstream request failed")
)

// SiteNotFoundError represents a site not found error with context
type SiteNotFoundError struct {
	SiteID string
}

func (e *SiteNotFoundError) Error() string {
	return fmt.Sprintf("site '%s' not found", e.SiteID)
}

func (e *SiteNotFoundError) Is(target error) bool {
	return target == ErrSiteNotFound
}

// NewSiteNotFoundError creates a new SiteNotFoundError
func NewSiteNotFoundError(siteID string) *SiteNotFoundError {
	return &SiteNotFoundError{SiteID: siteID}
}

// CategoryNotFoundError represents a category not found error with context
type CategoryNotFoundError struct {
	CategoryID string
	SiteID     string
}

func (e *CategoryNotFoundError) Error() string {
	if e.SiteID != "" {
		return fmt.Sprintf("category '%s' not found for site '%s'", e.CategoryID, e.SiteID)
	}
	return fmt.Sprintf("category '%s' not found", e.CategoryID)
}

func (e *CategoryNotFoundError) Is(target error) bool {
	return target == ErrCategoryNotFound
}

// NewCategoryNotFoundError creates a new CategoryNotFoundError
func NewCategoryNotFoundError(categoryID string, siteID ...string) *CategoryNotFoundError {
	err := &CategoryNotFoundError{CategoryID: categoryID}
	if len(siteID) > 0 {
		err.SiteID = siteID[0]
	}
	return err
}

// ContentNotFoundError represents a content item not found error with context
type ContentNotFoundError struct {
	ID  string
	Key string
}

func (e *ContentNotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("content with key '%s' not found", e.Key)
	}
	return fmt.Sprintf("content with id '%s' not found", e.ID)
}

func (e *ContentNotFoundError) Is(target error) bool {
	return target == ErrContentNotFound
}

// NewContentNotFoundError creates a new ContentNotFoundError for a delivery id
func NewContentNotFoundError(id string) *ContentNotFoundError {
	return &ContentNotFoundError{ID: id}
}

// NewContentKeyNotFoundError creates a new ContentNotFoundError for a delivery key
func NewContentKeyNotFoundError(key string) *ContentNotFoundError {
	return &ContentNotFoundError{Key: key}
}

// MappingNotFoundError represents a missing schema-to-component mapping
type MappingNotFoundError struct {
	Schema string
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf("no component mapping registered for schema '%s'", e.Schema)
}

func (e *MappingNotFoundError) Is(target error) bool {
	return target == ErrMappingNotFound
}

// NewMappingNotFoundError creates a new MappingNotFoundError
func NewMappingNotFoundError(schema string) *MappingNotFoundError {
	return &MappingNotFoundError{Schema: schema}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError represents a failed call to an external collaborator. System
// identifies the collaborator ("commerce", "cms"), Operation the call that
// failed, and StatusCode the HTTP status when one was received (0 otherwise).
type UpstreamError struct {
	System     string
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed with status %d", e.System, e.Operation, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.System, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.System, e.Operation)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(system, operation string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{System: system, Operation: operation, StatusCode: statusCode, Err: err}
}
