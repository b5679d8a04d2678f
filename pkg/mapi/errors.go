package mapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifies an API failure into a closed set of variants.
type ErrorKind string

const (
	// ErrorKindAuth covers 401 and 403 responses.
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindNotFound covers 404 responses.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindRateLimit covers 429 responses.
	ErrorKindRateLimit ErrorKind = "rate_limit"

	// ErrorKindValidation covers 400 and 422 responses.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindGeneric covers every other failure, including transport errors.
	ErrorKindGeneric ErrorKind = "generic"
)

// ErrorObject is one structured error from a JSON:API error response body.
type ErrorObject struct {
	Code   string       `json:"code,omitempty"   yaml:"code,omitempty"`
	Title  string       `json:"title,omitempty"  yaml:"title,omitempty"`
	Detail string       `json:"detail,omitempty" yaml:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// ErrorSource points at the request element an error object refers to.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"   yaml:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
}

// errorBody is the JSON:API error envelope.
type errorBody struct {
	Errors []ErrorObject `json:"errors"`
}

// APIError represents a classified failure from the API. Exactly one Kind is
// ever active; RetryAfter is only populated for ErrorKindRateLimit, and Errors
// only for ErrorKindValidation.
type APIError struct {
	Kind       ErrorKind
	Status     int
	Message    string
	RetryAfter time.Duration
	Errors     []ErrorObject
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind == ErrorKindRateLimit && e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}

	if e.Status > 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
	}

	return e.Message
}

// unknownErrorMessage is used when an error object carries no usable text.
const unknownErrorMessage = "Unknown error"

// messageFromObjects joins structured error objects into one display message,
// preferring detail over title over a generic placeholder.
func messageFromObjects(objects []ErrorObject) string {
	parts := make([]string, 0, len(objects))

	for _, obj := range objects {
		switch {
		case obj.Detail != "":
			parts = append(parts, obj.Detail)
		case obj.Title != "":
			parts = append(parts, obj.Title)
		default:
			parts = append(parts, unknownErrorMessage)
		}
	}

	return strings.Join(parts, "; ")
}

// ClassifyResponse converts a non-2xx HTTP response into exactly one APIError
// variant. A body that cannot be parsed as a JSON:API error envelope degrades
// to a message synthesized from the status code alone; classification itself
// never fails.
func ClassifyResponse(status int, body []byte, header http.Header) *APIError {
	var objects []ErrorObject

	var envelope errorBody
	if len(body) > 0 && json.Unmarshal(body, &envelope) == nil {
		objects = envelope.Errors
	}

	message := messageFromObjects(objects)
	if message == "" {
		message = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{Kind: ErrorKindAuth, Status: status, Message: "Authentication failed: " + message}

	case http.StatusNotFound:
		return &APIError{Kind: ErrorKindNotFound, Status: status, Message: "Resource not found: " + message}

	case http.StatusTooManyRequests:
		apiErr := &APIError{Kind: ErrorKindRateLimit, Status: status, Message: "Rate limited: " + message}

		if header != nil {
			if seconds, err := strconv.Atoi(header.Get("Retry-After")); err == nil && seconds > 0 {
				apiErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}

		return apiErr

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &APIError{
			Kind:    ErrorKindValidation,
			Status:  status,
			Message: "Validation failed: " + message,
			Errors:  objects,
		}

	default:
		return &APIError{Kind: ErrorKindGeneric, Status: status, Message: message}
	}
}

// NewTimeoutError returns the distinguished timeout condition surfaced when a
// request exceeds its deadline.
func NewTimeoutError(timeout time.Duration) *APIError {
	return &APIError{
		Kind:    ErrorKindGeneric,
		Status:  http.StatusRequestTimeout,
		Message: fmt.Sprintf("request timed out after %s", timeout),
	}
}

// NewTransportError wraps a raw network failure (DNS, connection refused) that
// never produced an HTTP status.
func NewTransportError(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindGeneric,
		Message: "request failed: " + err.Error(),
	}
}

// IsAuth checks if the error is an authentication or authorization failure.
func IsAuth(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindAuth
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindNotFound
}

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindRateLimit
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindValidation
}

// IsTimeout checks if the error is the distinguished timeout condition.
func IsTimeout(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindGeneric && apiErr.Status == http.StatusRequestTimeout
}
