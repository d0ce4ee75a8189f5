package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultClientHeader is the identifying header attached to every request
const DefaultClientHeader = "X-Catalog-Client"

// Client represents a catalog service client
type Client struct {
	endpoint    *url.URL
	headerName  string
	headerValue string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. A client passed to WithHTTPClient
// is copied first and left unchanged.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithClientHeader sets the identifying header name and value
func WithClientHeader(name, value string) Option {
	return func(c *Client) {
		if name != "" {
			c.headerName = name
		}
		c.headerValue = value
	}
}

// NewClient creates a new catalog client.
// An endpoint that is not an absolute URL is rejected here and never retried.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	endpoint, err := parseEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		endpoint:   endpoint,
		headerName: DefaultClientHeader,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Endpoint returns the configured base endpoint
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// HeaderName returns the identifying header attached to requests
func (c *Client) HeaderName() string {
	return c.headerName
}

// Fetch retrieves the catalog items matching the criteria.
// Exactly one request is made; failures are returned as *TransportError, *APIError or *DecodeError.
func (c *Client) Fetch(ctx context.Context, criteria Criteria) ([]CatalogItem, error) {
	reqURL, err := BuildURL(c.endpoint.String(), criteria)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("url", reqURL).
		Int("count", len(items)).
		Msg("Retrieved catalog items")

	return items, nil
}

// FetchAll retrieves the whole catalog
func (c *Client) FetchAll(ctx context.Context) ([]CatalogItem, error) {
	return c.Fetch(ctx, Criteria{})
}

// doRequest performs a GET and returns the body of a successful response
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidConfig, err)
	}

	req.Header.Set(c.headerName, c.headerValue)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(resp.StatusCode, c.headerName)
		apiErr.Body = string(body)
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("kind", apiErr.Kind.String()).
			Msg("Catalog request failed")
		return nil, apiErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &APIError{
			Kind:       KindUnexpected,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("the catalog answered status %d without a body", resp.StatusCode),
			Err:        ErrEmptyBody,
		}
	}

	return body, nil
}

// decodeItems parses a JSON array of catalog movies
func decodeItems(body []byte) ([]CatalogItem, error) {
	// json.Unmarshal accepts null for a slice; the service must send an array
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &DecodeError{Err: ErrNotArray}
	}

	var dtos []movieDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &DecodeError{Err: err}
	}

	items := make([]CatalogItem, 0, len(dtos))
	for _, d := range dtos {
		item, err := d.toItem()
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("item %s: %w", d.ID, err)}
		}
		items = append(items, item)
	}
	return items, nil
}
