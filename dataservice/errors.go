// Package dataservice simulates the dashboard's data backend: typed metric
// and chart payloads served with randomized latency, injected transient
// failures, payload shape validation and a generic bounded-retry wrapper.
package dataservice

import (
	"errors"
	"fmt"
	"time"
)

// Error codes for simulated service failures
const (
	ErrCodeNetwork = "NETWORK_ERROR"
	ErrCodeTimeout = "REQUEST_TIMEOUT"
	ErrCodeServer  = "SERVER_ERROR"
)

// ServiceError is a typed data-fetch failure with a machine-readable code.
// Retryable indicates whether the same request may succeed if repeated.
type ServiceError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNetworkError returns a retryable network failure.
func NewNetworkError() *ServiceError {
	return &ServiceError{
		Code:      ErrCodeNetwork,
		Message:   "Network connection failed. Please check your internet connection.",
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// NewTimeoutError returns a retryable timeout failure.
func NewTimeoutError() *ServiceError {
	return &ServiceError{
		Code:      ErrCodeTimeout,
		Message:   "Request timed out. The server took too long to respond.",
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// NewServerError returns a retryable internal server failure.
func NewServerError() *ServiceError {
	return &ServiceError{
		Code:      ErrCodeServer,
		Message:   "Internal server error. Please try again later.",
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// IsServiceError checks if an error is a ServiceError and returns it if so.
func IsServiceError(err error) (*ServiceError, bool) {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr, true
	}
	return nil, false
}

// IsRetryable reports whether a retry may help. Only errors that explicitly
// declare themselves permanent are excluded: a ServiceError carrying
// Retryable false, or a ValidationError, where the same input would fail
// again. Any other error is treated as transient.
func IsRetryable(err error) bool {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Retryable
	}
	var vErr *ValidationError
	return !errors.As(err, &vErr)
}

// ValidationError reports a malformed payload shape. It names the widget and
// the offending field so the bad mock source is immediately identifiable.
type ValidationError struct {
	WidgetID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("widget %q: invalid %s: %s", e.WidgetID, e.Field, e.Reason)
}
