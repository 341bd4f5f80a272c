package tvdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrMissingCredentials indicates the pin or API key was not supplied
	ErrMissingCredentials = errors.New("missing tvdb credentials")
	// ErrNotFound indicates a lookup produced no match
	ErrNotFound = errors.New("resource not found")
	// ErrUnsupportedKind indicates a resource kind the operation does not serve
	ErrUnsupportedKind = errors.New("unsupported resource kind")
)

// ConfigError reports a credential missing at construction time.
type ConfigError struct {
	Field string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("tvdb configuration error: %s is required", e.Field)
}

// Unwrap allows errors.Is(err, ErrMissingCredentials)
func (e *ConfigError) Unwrap() error {
	return ErrMissingCredentials
}

// AuthError reports a rejected or malformed login exchange.
type AuthError struct {
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("tvdb login failed: status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("tvdb login failed: %s", msg)
}

// Unwrap returns the underlying cause, if any
func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError represents a failed resource call
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	URL        string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tvdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NotFoundError is returned when a name lookup yields no match.
type NotFoundError struct {
	Kind  Kind
	Query string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found matching %q", e.Kind, e.Query)
}

// Unwrap allows errors.Is(err, ErrNotFound)
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
