package catalog

import (
	"context"
)

// API defines the interface for catalog retrieval
type API interface {
	// Fetch retrieves the items matching the criteria
	Fetch(ctx context.Context, criteria Criteria) ([]CatalogItem, error)

	// FetchAll retrieves the whole catalog
	FetchAll(ctx context.Context) ([]CatalogItem, error)
}

var _ API = (*Client)(nil)
