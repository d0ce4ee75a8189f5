package watchlist

import (
	"context"
	"time"

	"github.com/s0up4200/marquee/catalog"
)

// WatchlistEntry records that a catalog item was saved by the user
type WatchlistEntry struct {
	ID            string
	CatalogItemID string
	CreatedAt     time.Time
}

// CatalogSource supplies the catalog that watchlist entries are joined against
type CatalogSource interface {
	CatalogItems(ctx context.Context) ([]catalog.CatalogItem, error)
}

// CatalogSourceFunc adapts a function to CatalogSource
type CatalogSourceFunc func(ctx context.Context) ([]catalog.CatalogItem, error)

// CatalogItems calls f(ctx)
func (f CatalogSourceFunc) CatalogItems(ctx context.Context) ([]catalog.CatalogItem, error) {
	return f(ctx)
}
