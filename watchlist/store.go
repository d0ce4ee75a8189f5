package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/database"
)

// ErrEmptyID is returned when a mutation is called without a catalog item id
var ErrEmptyID = errors.New("catalog item id is required")

// Store owns the watchlist entries and notifies observers after every change
type Store struct {
	db       *sql.DB
	source   CatalogSource
	notifier *Notifier
	logger   zerolog.Logger

	// mu serializes writes so the duplicate check and the insert in Add
	// cannot interleave with another mutation
	mu sync.Mutex

	// publishMu orders view computation and delivery so the last view an
	// observer receives reflects the latest committed change. Observers
	// must not call Add or Remove from the callback.
	publishMu sync.Mutex
}

// NewStore creates a watchlist store on db, joining entries against source
func NewStore(db *sql.DB, source CatalogSource, logger zerolog.Logger) *Store {
	return &Store{
		db:       db,
		source:   source,
		notifier: NewNotifier(),
		logger:   logger,
	}
}

// Notifier returns the notifier the store publishes to
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Register adds an observer for watchlist changes
func (s *Store) Register(observer Observer) ObserverID {
	return s.notifier.Register(observer)
}

// Unregister removes an observer; it reports whether the id was registered
func (s *Store) Unregister(id ObserverID) bool {
	return s.notifier.Unregister(id)
}

// Add saves catalogItemID to the watchlist. It returns false without
// notifying when the item is already present.
func (s *Store) Add(ctx context.Context, catalogItemID string) (bool, error) {
	if catalogItemID == "" {
		return false, ErrEmptyID
	}

	created, err := s.insertIfAbsent(ctx, catalogItemID)
	if err != nil || !created {
		return false, err
	}

	s.logger.Debug().Str("catalog_item_id", catalogItemID).Msg("Added to watchlist")

	if err := s.notify(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) insertIfAbsent(ctx context.Context, catalogItemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, database.Wrap("add", fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM watchlist WHERE catalog_item_id = ?)", catalogItemID,
	).Scan(&exists)
	if err != nil {
		return false, database.Wrap("add", fmt.Errorf("check existing entry: %w", err))
	}
	if exists {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO watchlist (id, catalog_item_id, created_at) VALUES (?, ?, ?)",
		uuid.NewString(), catalogItemID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, database.Wrap("add", fmt.Errorf("insert entry: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return false, database.Wrap("add", fmt.Errorf("commit: %w", err))
	}
	return true, nil
}

// Remove deletes every entry for catalogItemID and returns how many were
// deleted. Observers are notified only when something was removed.
func (s *Store) Remove(ctx context.Context, catalogItemID string) (int, error) {
	if catalogItemID == "" {
		return 0, ErrEmptyID
	}

	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM watchlist WHERE catalog_item_id = ?", catalogItemID)
	s.mu.Unlock()
	if err != nil {
		return 0, database.Wrap("remove", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, database.Wrap("remove", fmt.Errorf("rows affected: %w", err))
	}
	if deleted == 0 {
		return 0, nil
	}

	s.logger.Debug().
		Str("catalog_item_id", catalogItemID).
		Int64("deleted", deleted).
		Msg("Removed from watchlist")

	if err := s.notify(ctx); err != nil {
		return int(deleted), err
	}
	return int(deleted), nil
}

// Contains reports whether catalogItemID is on the watchlist
func (s *Store) Contains(ctx context.Context, catalogItemID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM watchlist WHERE catalog_item_id = ?)", catalogItemID,
	).Scan(&exists)
	if err != nil {
		return false, database.Wrap("contains", err)
	}
	return exists, nil
}

// Entries returns every entry in insertion order
func (s *Store) Entries(ctx context.Context) ([]WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, catalog_item_id, created_at FROM watchlist ORDER BY rowid")
	if err != nil {
		return nil, database.Wrap("list entries", err)
	}
	defer rows.Close()

	entries := make([]WatchlistEntry, 0)
	for rows.Next() {
		var (
			entry     WatchlistEntry
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.CatalogItemID, &createdAt); err != nil {
			return nil, database.Wrap("list entries", err)
		}
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, database.Wrap("list entries", fmt.Errorf("entry %s: %w", entry.ID, err))
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list entries", err)
	}
	return entries, nil
}

// Movies returns the catalog items on the watchlist in catalog order.
// Entries whose item is no longer in the catalog are left out.
func (s *Store) Movies(ctx context.Context) ([]catalog.CatalogItem, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.source.CatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	saved := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		saved[entry.CatalogItemID] = struct{}{}
	}

	movies := make([]catalog.CatalogItem, 0, len(entries))
	for _, item := range items {
		if _, ok := saved[item.ID]; ok {
			movies = append(movies, item)
			delete(saved, item.ID)
		}
	}

	if len(saved) > 0 {
		s.logger.Debug().Int("orphaned", len(saved)).Msg("Watchlist entries missing from catalog")
	}
	return movies, nil
}

func (s *Store) notify(ctx context.Context) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	movies, err := s.Movies(ctx)
	if err != nil {
		return fmt.Errorf("failed to build watchlist view: %w", err)
	}
	s.notifier.Publish(movies)
	return nil
}
