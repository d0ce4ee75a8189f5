package library_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/catalog/catalogtest"
	"github.com/s0up4200/marquee/database"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/library"
	"github.com/s0up4200/marquee/watchlist"
)

// catalogHandler serves the fixture catalog, narrowed by the genre parameter
func catalogHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(catalog.DefaultClientHeader) == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		items := catalogtest.Movies()
		if name := r.URL.Query().Get("genre"); name != "" {
			genre, err := catalog.ParseGenre(name)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			items = filter.Items(items, "", &genre)
		}

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(catalogtest.JSON(items))
		assert.NoError(t, err)
	}
}

func newOperations(t *testing.T, handler http.Handler) *library.Operations {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, zerolog.Nop(),
		catalog.WithClientHeader(catalog.DefaultClientHeader, "library-test"))
	require.NoError(t, err)

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "library.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := database.NewCatalogCache(db)
	store := watchlist.NewStore(db.Conn(), cache, zerolog.Nop())
	return library.NewOperations(client, cache, store, zerolog.Nop())
}

func TestFetchRefineSort(t *testing.T) {
	ops := newOperations(t, catalogHandler(t))
	ctx := context.Background()

	items, err := ops.FetchFilteredCatalog(ctx, catalog.Criteria{})
	require.NoError(t, err)
	assert.Len(t, items, len(catalogtest.Movies()))

	assert.Equal(t, []string{"Puss in Boots"}, catalogtest.Titles(ops.Refine(items, "puss", nil)))

	drama := catalog.GenreDrama
	dramas := ops.Refine(items, "", &drama)
	assert.Equal(t,
		[]string{"The Godfather", "The Shawshank Redemption", "Fight Club"},
		catalogtest.Titles(dramas))

	var order filter.SortOrder
	assert.Equal(t, catalogtest.Titles(dramas), catalogtest.Titles(ops.ApplySort(order, dramas)))

	order = order.Next()
	assert.Equal(t,
		[]string{"Fight Club", "The Godfather", "The Shawshank Redemption"},
		catalogtest.Titles(ops.ApplySort(order, dramas)))

	order = order.Next()
	assert.Equal(t,
		[]string{"The Shawshank Redemption", "The Godfather", "Fight Club"},
		catalogtest.Titles(ops.ApplySort(order, dramas)))
}

func TestFetchByGenres(t *testing.T) {
	ops := newOperations(t, catalogHandler(t))

	items, err := ops.FetchByGenres(context.Background(),
		[]catalog.Genre{catalog.GenreAnimation, catalog.GenreComedy, catalog.GenreCrime},
		catalog.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Puss in Boots", "Spirited Away", "The Godfather"}, catalogtest.Titles(items))
}

func TestFetchByGenresFailure(t *testing.T) {
	ops := newOperations(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("genre") == "WAR" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))

	_, err := ops.FetchByGenres(context.Background(),
		[]catalog.Genre{catalog.GenreDrama, catalog.GenreWar}, catalog.Criteria{})
	require.Error(t, err)

	var apiErr *catalog.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, catalog.KindUnavailable, apiErr.Kind)
}

func TestWatchlistThroughOperations(t *testing.T) {
	ops := newOperations(t, catalogHandler(t))
	ctx := context.Background()

	n, err := ops.SyncCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(catalogtest.Movies()), n)

	cached, err := ops.CachedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalogtest.Movies(), cached)

	var views [][]catalog.CatalogItem
	id := ops.RegisterObserver(func(movies []catalog.CatalogItem) {
		views = append(views, movies)
	})

	created, err := ops.AddToWatchlist(ctx, "tt0245429")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = ops.AddToWatchlist(ctx, "tt0245429")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = ops.AddToWatchlist(ctx, "tt1375666")
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, []string{"Inception", "Spirited Away"}, catalogtest.Titles(views[1]))

	ids, err := ops.WatchlistedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"tt0245429": true, "tt1375666": true}, ids)

	assert.True(t, ops.UnregisterObserver(id))

	deleted, err := ops.RemoveFromWatchlist(ctx, "tt1375666")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Len(t, views, 2)

	movies, err := ops.WatchlistMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spirited Away"}, catalogtest.Titles(movies))
}

func TestSyncCatalogKeepsCacheOnFailure(t *testing.T) {
	var fail atomic.Bool
	ops := newOperations(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(catalogtest.JSON(catalogtest.Movies()))
	}))
	ctx := context.Background()

	_, err := ops.SyncCatalog(ctx)
	require.NoError(t, err)

	fail.Store(true)
	_, err = ops.SyncCatalog(ctx)
	require.Error(t, err)

	cached, err := ops.CachedCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, len(catalogtest.Movies()))
}

func TestExpressionsAndPresets(t *testing.T) {
	ops := newOperations(t, catalogHandler(t))
	items := catalogtest.Movies()

	got, err := ops.FilterByExpression(`directedBy("Christopher Nolan")`, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inception"}, catalogtest.Titles(got))

	_, err = ops.FilterByExpression(`Rating >`, items)
	var compileErr *filter.CompilationError
	assert.True(t, errors.As(err, &compileErr))

	require.NoError(t, ops.Filters().RegisterFilter("short", `Runtime > 0 and Runtime < 100`))
	got, err = ops.EvaluatePreset("short", items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Puss in Boots", "Untitled Short"}, catalogtest.Titles(got))

	_, err = ops.EvaluatePreset("missing", items)
	var presetErr *filter.PresetError
	assert.True(t, errors.As(err, &presetErr))
}
