package library

import (
	"context"

	"github.com/s0up4200/marquee/catalog"
)

// CatalogCache stores the catalog used to resolve watchlist entries
type CatalogCache interface {
	SaveCatalog(ctx context.Context, items []catalog.CatalogItem) error
	CatalogItems(ctx context.Context) ([]catalog.CatalogItem, error)
}

// MovieFormatter defines the interface for formatting catalog output
type MovieFormatter interface {
	FormatMovieList(movies []catalog.CatalogItem, options FormatOptions) string
	FormatWatchlist(movies []catalog.CatalogItem) string
}

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	Watchlisted map[string]bool
}
