package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/watchlist"
)

// MaxConcurrentFetches bounds the parallel requests made by FetchByGenres
const MaxConcurrentFetches = 4

// Operations is the entry point the presentation layer uses to browse the
// catalog and change the watchlist
type Operations struct {
	client    catalog.API
	cache     CatalogCache
	store     *watchlist.Store
	filters   *filter.Manager
	formatter MovieFormatter
	logger    zerolog.Logger
}

// NewOperations creates a new Operations instance
func NewOperations(client catalog.API, cache CatalogCache, store *watchlist.Store, logger zerolog.Logger) *Operations {
	return &Operations{
		client:    client,
		cache:     cache,
		store:     store,
		filters:   filter.NewManager(),
		formatter: NewConsoleFormatter(),
		logger:    logger,
	}
}

// SetFilterManager replaces the manager holding named presets
func (o *Operations) SetFilterManager(m *filter.Manager) {
	o.filters = m
}

// Filters returns the manager holding named presets
func (o *Operations) Filters() *filter.Manager {
	return o.filters
}

// Formatter returns the console formatter
func (o *Operations) Formatter() MovieFormatter {
	return o.formatter
}

// FetchFilteredCatalog asks the catalog service for the items matching criteria
func (o *Operations) FetchFilteredCatalog(ctx context.Context, criteria catalog.Criteria) ([]catalog.CatalogItem, error) {
	items, err := o.client.Fetch(ctx, criteria)
	if err != nil {
		return nil, err
	}

	o.logger.Debug().Int("count", len(items)).Msg("Fetched catalog")
	return items, nil
}

// FetchByGenres fetches each genre concurrently and merges the results.
// Items keep the order of the genre that returned them first.
func (o *Operations) FetchByGenres(ctx context.Context, genres []catalog.Genre, base catalog.Criteria) ([]catalog.CatalogItem, error) {
	results := make([][]catalog.CatalogItem, len(genres))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)

	for i, genre := range genres {
		g.Go(func() error {
			criteria := base
			criteria.Genre = &genre

			items, err := o.client.Fetch(ctx, criteria)
			if err != nil {
				return fmt.Errorf("failed to fetch genre %s: %w", genre, err)
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	merged := make([]catalog.CatalogItem, 0)
	for _, items := range results {
		for _, item := range items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged, nil
}

// ApplySort orders items according to the sort cycle state
func (o *Operations) ApplySort(order filter.SortOrder, items []catalog.CatalogItem) []catalog.CatalogItem {
	return order.Apply(items)
}

// Refine narrows already fetched items by title text and genre
func (o *Operations) Refine(items []catalog.CatalogItem, searchText string, genre *catalog.Genre) []catalog.CatalogItem {
	return filter.Items(items, searchText, genre)
}

// FilterByExpression keeps the items matching an expr expression
func (o *Operations) FilterByExpression(expression string, items []catalog.CatalogItem) ([]catalog.CatalogItem, error) {
	compiled, err := o.filters.Compile(expression)
	if err != nil {
		return nil, err
	}
	return filter.Apply(compiled, items), nil
}

// EvaluatePreset keeps the items matching the named preset
func (o *Operations) EvaluatePreset(name string, items []catalog.CatalogItem) ([]catalog.CatalogItem, error) {
	return o.filters.EvaluateFilter(name, items)
}

// SyncCatalog downloads the full catalog and replaces the local copy
func (o *Operations) SyncCatalog(ctx context.Context) (int, error) {
	items, err := o.client.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := o.cache.SaveCatalog(ctx, items); err != nil {
		return 0, err
	}

	o.logger.Info().Int("count", len(items)).Msg("Catalog synced")
	return len(items), nil
}

// CachedCatalog returns the locally stored catalog
func (o *Operations) CachedCatalog(ctx context.Context) ([]catalog.CatalogItem, error) {
	return o.cache.CatalogItems(ctx)
}

// AddToWatchlist saves an item; false means it was already saved
func (o *Operations) AddToWatchlist(ctx context.Context, catalogItemID string) (bool, error) {
	return o.store.Add(ctx, catalogItemID)
}

// RemoveFromWatchlist drops an item and returns how many entries were deleted
func (o *Operations) RemoveFromWatchlist(ctx context.Context, catalogItemID string) (int, error) {
	return o.store.Remove(ctx, catalogItemID)
}

// WatchlistMovies returns the catalog items currently on the watchlist
func (o *Operations) WatchlistMovies(ctx context.Context) ([]catalog.CatalogItem, error) {
	return o.store.Movies(ctx)
}

// WatchlistedIDs returns the set of catalog ids on the watchlist
func (o *Operations) WatchlistedIDs(ctx context.Context) (map[string]bool, error) {
	entries, err := o.store.Entries(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(entries))
	for _, entry := range entries {
		ids[entry.CatalogItemID] = true
	}
	return ids, nil
}

// RegisterObserver subscribes fn to watchlist changes
func (o *Operations) RegisterObserver(fn watchlist.Observer) watchlist.ObserverID {
	return o.store.Register(fn)
}

// UnregisterObserver cancels a subscription made with RegisterObserver
func (o *Operations) UnregisterObserver(id watchlist.ObserverID) bool {
	return o.store.Unregister(id)
}
