package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSiteNotFoundError(t *testing.T) {
	err := NewSiteNotFoundError("northwind")

	expectedMsg := "site 'northwind' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrSiteNotFound) {
		t.Error("Expected error to match ErrSiteNotFound sentinel")
	}

	// Test that it doesn't match other sentinels
	if errors.Is(err, ErrCategoryNotFound) {
		t.Error("Error should not match ErrCategoryNotFound")
	}
}

func TestCategoryNotFoundError(t *testing.T) {
	// Test without site id
	err := NewCategoryNotFoundError("camping")

	expectedMsg := "category 'camping' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test with site id
	err2 := NewCategoryNotFoundError("camping", "northwind")

	expectedMsg2 := "category 'camping' not found for site 'northwind'"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Error("Expected error to match ErrCategoryNotFound sentinel")
	}
	if !errors.Is(err2, ErrCategoryNotFound) {
		t.Error("Expected error with site to match ErrCategoryNotFound sentinel")
	}
}

func TestContentNotFoundError(t *testing.T) {
	// Test by delivery id
	err := NewContentNotFoundError("abc-123")

	expectedMsg := "content with id 'abc-123' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test by delivery key
	err2 := NewContentKeyNotFoundError("home/hero")

	expectedMsg2 := "content with key 'home/hero' not found"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrContentNotFound) {
		t.Error("Expected error to match ErrContentNotFound sentinel")
	}
	if !errors.Is(err2, ErrContentNotFound) {
		t.Error("Expected key error to match ErrContentNotFound sentinel")
	}
}

func TestMappingNotFoundError(t *testing.T) {
	err := NewMappingNotFoundError("https://cms.northwind.dev/schema/hero-banner.json")

	expectedMsg := "no component mapping registered for schema 'https://cms.northwind.dev/schema/hero-banner.json'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrMappingNotFound) {
		t.Error("Expected error to match ErrMappingNotFound sentinel")
	}
	if errors.Is(err, ErrContentNotFound) {
		t.Error("Error should not match ErrContentNotFound")
	}
}

func TestValidationError(t *testing.T) {
	// Test with field
	err := NewValidationError("offset", "must be an integer")

	expectedMsg := "validation error for field 'offset': must be an integer"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test without field
	err2 := NewValidationError("", "request body is empty")

	expectedMsg2 := "validation error: request body is empty"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
	if !errors.Is(err2, ErrInvalidInput) {
		t.Error("Expected error without field to match ErrInvalidInput sentinel")
	}
}

func TestUpstreamError(t *testing.T) {
	// Test with an HTTP status
	err := NewUpstreamError("commerce", "search products", 503, errors.New("service unavailable"))

	expectedMsg := "commerce search products failed with status 503"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test without a status, wrapping a transport error
	cause := errors.New("connection refused")
	err2 := NewUpstreamError("cms", "fetch slots", 0, cause)

	expectedMsg2 := "cms fetch slots failed: connection refused"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	// Test Is() and Unwrap()
	if !errors.Is(err, ErrUpstream) {
		t.Error("Expected error to match ErrUpstream sentinel")
	}
	if !errors.Is(err2, cause) {
		t.Error("Expected Unwrap to expose the underlying cause")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestErrorChaining(t *testing.T) {
	// Test that our custom errors can be wrapped and unwrapped
	originalErr := NewValidationError("viewport", "unknown viewport")
	wrappedErr := fmt.Errorf("listing request rejected: %w", originalErr)

	// Should still be able to detect the original error
	if !errors.Is(wrappedErr, ErrInvalidInput) {
		t.Error("Expected wrapped error to still match ErrInvalidInput sentinel")
	}

	// Should be able to unwrap to get the original error
	var validationErr *ValidationError
	if !errors.As(wrappedErr, &validationErr) {
		t.Error("Expected to be able to unwrap to ValidationError")
	}

	if validationErr.Field != "viewport" {
		t.Errorf("Expected field 'viewport', got '%s'", validationErr.Field)
	}
}
