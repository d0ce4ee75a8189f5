package watchlist_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/catalog/catalogtest"
	"github.com/s0up4200/marquee/database"
	"github.com/s0up4200/marquee/watchlist"
)

type fixture struct {
	db    *database.DB
	cache *database.CatalogCache
	store *watchlist.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "watchlist.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := database.NewCatalogCache(db)
	require.NoError(t, cache.SaveCatalog(context.Background(), catalogtest.Movies()))

	return &fixture{
		db:    db,
		cache: cache,
		store: watchlist.NewStore(db.Conn(), cache, zerolog.Nop()),
	}
}

// recorder collects every published view
type recorder struct {
	mu    sync.Mutex
	views [][]catalog.CatalogItem
}

func (r *recorder) observe(movies []catalog.CatalogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, movies)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recorder) last() []catalog.CatalogItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return nil
	}
	return r.views[len(r.views)-1]
}

func TestAddTwiceKeepsOneEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &recorder{}
	f.store.Register(rec.observe)

	created, err := f.store.Add(ctx, "tt0448694")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.store.Add(ctx, "tt0448694")
	require.NoError(t, err)
	assert.False(t, created)

	entries, err := f.store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tt0448694", entries[0].CatalogItemID)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())

	assert.Equal(t, 1, rec.count())
	assert.Equal(t, []string{"Puss in Boots"}, catalogtest.Titles(rec.last()))
}

func TestConcurrentAddsKeepOneEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &recorder{}
	f.store.Register(rec.observe)

	var (
		mu      sync.Mutex
		creates int
	)
	g, gctx := errgroup.WithContext(ctx)
	for range 16 {
		g.Go(func() error {
			created, err := f.store.Add(gctx, "tt1375666")
			if err != nil {
				return err
			}
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	entries, err := f.store.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, rec.count())
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Add(ctx, "tt0068646")
	require.NoError(t, err)
	_, err = f.store.Add(ctx, "tt0111161")
	require.NoError(t, err)

	rec := &recorder{}
	f.store.Register(rec.observe)

	t.Run("absent id is a silent no-op", func(t *testing.T) {
		deleted, err := f.store.Remove(ctx, "tt9999999")
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.Zero(t, rec.count())
	})

	t.Run("present id notifies once", func(t *testing.T) {
		deleted, err := f.store.Remove(ctx, "tt0068646")
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)
		assert.Equal(t, 1, rec.count())
		assert.Equal(t, []string{"The Shawshank Redemption"}, catalogtest.Titles(rec.last()))

		ok, err := f.store.Contains(ctx, "tt0068646")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRemoveDeletesDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := f.db.Conn().Exec(
			"INSERT INTO watchlist (id, catalog_item_id, created_at) VALUES (?, 'tt0137523', '2024-01-01T00:00:00Z')", id,
		)
		require.NoError(t, err)
	}

	deleted, err := f.store.Remove(ctx, "tt0137523")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}

func TestMoviesDropsOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"tt0137523", "tt0000001", "tt0245429"} {
		_, err := f.store.Add(ctx, id)
		require.NoError(t, err)
	}

	// The catalog refresh no longer carries the short film.
	var remaining []catalog.CatalogItem
	for _, item := range catalogtest.Movies() {
		if item.ID != "tt0000001" {
			remaining = append(remaining, item)
		}
	}
	require.NoError(t, f.cache.SaveCatalog(ctx, remaining))

	movies, err := f.store.Movies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spirited Away", "Fight Club"}, catalogtest.Titles(movies))

	entries, err := f.store.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestEmptyID(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Add(context.Background(), "")
	assert.ErrorIs(t, err, watchlist.ErrEmptyID)

	_, err = f.store.Remove(context.Background(), "")
	assert.ErrorIs(t, err, watchlist.ErrEmptyID)
}

func TestStorageFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Close())

	_, err := f.store.Add(context.Background(), "tt0068646")
	var storageErr *database.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "add", storageErr.Op)

	_, err = f.store.Remove(context.Background(), "tt0068646")
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "remove", storageErr.Op)

	_, err = f.store.Entries(context.Background())
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "list entries", storageErr.Op)
}

func TestCatalogSourceFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("cache unavailable")
	store := watchlist.NewStore(f.db.Conn(), watchlist.CatalogSourceFunc(
		func(context.Context) ([]catalog.CatalogItem, error) { return nil, boom },
	), zerolog.Nop())

	_, err := store.Movies(context.Background())
	assert.ErrorIs(t, err, boom)

	// The entry is persisted even though the view could not be built.
	created, err := store.Add(context.Background(), "tt0068646")
	assert.True(t, created)
	assert.ErrorIs(t, err, boom)
}

func TestOverlappingAddsPublishLatestView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		calls   atomic.Int32
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	store := watchlist.NewStore(f.db.Conn(), watchlist.CatalogSourceFunc(
		func(context.Context) ([]catalog.CatalogItem, error) {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
			}
			return catalogtest.Movies(), nil
		},
	), zerolog.Nop())

	rec := &recorder{}
	store.Register(rec.observe)

	var g errgroup.Group
	g.Go(func() error {
		_, err := store.Add(ctx, "tt0448694")
		return err
	})
	<-entered

	g.Go(func() error {
		_, err := store.Add(ctx, "tt1375666")
		return err
	})
	require.Eventually(t, func() bool {
		ok, err := store.Contains(ctx, "tt1375666")
		return err == nil && ok
	}, 5*time.Second, 10*time.Millisecond)

	close(release)
	require.NoError(t, g.Wait())

	want := []string{"Puss in Boots", "Inception"}
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, want, catalogtest.Titles(rec.last()))

	movies, err := store.Movies(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, catalogtest.Titles(movies))
}
