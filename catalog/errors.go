package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates the catalog endpoint could not be used to build requests
	ErrInvalidConfig = errors.New("invalid catalog configuration")
	// ErrEmptyBody indicates a successful status arrived without a payload
	ErrEmptyBody = errors.New("empty response body")
	// ErrNotArray indicates a successful payload that is not a JSON array
	ErrNotArray = errors.New("response body is not a JSON array")
)

// FailureKind classifies an unsuccessful HTTP response
type FailureKind int

const (
	KindUnexpected FailureKind = iota
	KindBadRequest
	KindUnauthorized
	KindMissingHeader
	KindTimeout
	KindServerError
	KindBadGateway
	KindUnavailable
	KindAuthRequired
)

// String returns the string representation of a FailureKind
func (k FailureKind) String() string {
	switch k {
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindMissingHeader:
		return "MISSING_HEADER"
	case KindTimeout:
		return "TIMEOUT"
	case KindServerError:
		return "SERVER_ERROR"
	case KindBadGateway:
		return "BAD_GATEWAY"
	case KindUnavailable:
		return "UNAVAILABLE"
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	default:
		return "UNEXPECTED"
	}
}

type statusFailure struct {
	kind    FailureKind
	message string
}

// statusFailures maps response codes to their failure kind and explanation.
// The 403 message is a format string that receives the identifying header name.
var statusFailures = map[int]statusFailure{
	http.StatusBadRequest:                    {KindBadRequest, "the catalog rejected the request parameters"},
	http.StatusUnauthorized:                  {KindUnauthorized, "the client is not authorized to query the catalog"},
	http.StatusForbidden:                     {KindMissingHeader, "the required identifying header %s was missing or rejected"},
	http.StatusRequestTimeout:                {KindTimeout, "the catalog timed out waiting for the request"},
	http.StatusInternalServerError:           {KindServerError, "the catalog encountered an internal error"},
	http.StatusBadGateway:                    {KindBadGateway, "the catalog gateway received an invalid upstream response"},
	http.StatusServiceUnavailable:            {KindUnavailable, "the catalog is temporarily unavailable"},
	http.StatusNetworkAuthenticationRequired: {KindAuthRequired, "network authentication is required to reach the catalog"},
}

// classifyStatus builds the APIError for a response code
func classifyStatus(status int, header string) *APIError {
	sf, ok := statusFailures[status]
	if !ok {
		return &APIError{
			Kind:       KindUnexpected,
			StatusCode: status,
			Message:    fmt.Sprintf("unexpected response status %d %s", status, http.StatusText(status)),
		}
	}

	msg := sf.message
	if sf.kind == KindMissingHeader {
		msg = fmt.Sprintf(msg, header)
	}
	return &APIError{Kind: sf.kind, StatusCode: status, Message: msg}
}

// APIError represents an unsuccessful catalog response
type APIError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error: status %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsMissingHeader checks if the service rejected the identifying header
func (e *APIError) IsMissingHeader() bool {
	return e.Kind == KindMissingHeader
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.Kind == KindUnauthorized || e.Kind == KindAuthRequired
}

// IsServerSide reports whether the failure originated on the service side
func (e *APIError) IsServerSide() bool {
	return e.StatusCode >= 500
}

// TransportError wraps a connection, DNS or I/O failure that prevented a response
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates the response body was not a valid catalog payload
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode catalog response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// GenreError indicates a genre name outside the enumeration
type GenreError struct {
	Value string
}

func (e *GenreError) Error() string {
	return fmt.Sprintf("unknown genre %q", e.Value)
}
