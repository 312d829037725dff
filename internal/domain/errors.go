// Package domain provides the capability types and canonical error types for the gateway.
package domain

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a capability error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or out-of-range request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeProviderNotFound indicates the provider name is not configured.
	ErrorTypeProviderNotFound ErrorType = "provider_not_found"

	// ErrorTypeCapabilityUnsupported indicates the provider has no models for the capability.
	ErrorTypeCapabilityUnsupported ErrorType = "capability_unsupported"

	// ErrorTypeUpstream indicates a non-success HTTP status or a vendor failure code.
	ErrorTypeUpstream ErrorType = "upstream"

	// ErrorTypeEmptyResponse indicates a success status with the expected payload missing.
	ErrorTypeEmptyResponse ErrorType = "empty_response"
)

// APIError is the canonical error returned by capability adapters.
type APIError struct {
	// Type is the category of error
	Type ErrorType `json:"type"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Provider is the provider the error originated from, if any
	Provider string `json:"provider,omitempty"`

	// StatusCode is the upstream HTTP status, if any
	StatusCode int `json:"status_code,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
	}
}

// WithProvider sets the originating provider.
func (e *APIError) WithProvider(provider string) *APIError {
	e.Provider = provider
	return e
}

// WithStatusCode sets the upstream HTTP status.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// IsErrorType reports whether err carries an APIError of type t.
func IsErrorType(err error, t ErrorType) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == t
}

// Convenience constructors for common errors

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrProviderNotFound creates a provider not found error.
func ErrProviderNotFound(name string) *APIError {
	return NewAPIError(ErrorTypeProviderNotFound, fmt.Sprintf("provider %q not found", name)).
		WithProvider(name)
}

// ErrCapabilityUnsupported creates an error for a provider lacking a capability.
func ErrCapabilityUnsupported(provider string, capability Capability) *APIError {
	return NewAPIError(ErrorTypeCapabilityUnsupported,
		fmt.Sprintf("provider %q does not support %s", provider, capability)).
		WithProvider(provider)
}

// ErrUpstream creates an upstream failure error.
func ErrUpstream(message string) *APIError {
	return NewAPIError(ErrorTypeUpstream, message)
}

// ErrEmptyResponse creates an empty response error.
func ErrEmptyResponse(message string) *APIError {
	return NewAPIError(ErrorTypeEmptyResponse, message)
}
