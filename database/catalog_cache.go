package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
)

// CatalogCache persists the most recently synced catalog
type CatalogCache struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCatalogCache creates a cache on top of an open database
func NewCatalogCache(db *DB) *CatalogCache {
	return &CatalogCache{db: db.Conn(), logger: db.logger}
}

// SaveCatalog replaces the cached catalog with items, keeping their order
func (c *CatalogCache) SaveCatalog(ctx context.Context, items []catalog.CatalogItem) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Wrap("save catalog", fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_items"); err != nil {
		return Wrap("save catalog", fmt.Errorf("clear catalog: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_items (
            id, position, title, genres, release_year, description, img_url,
            length_in_minutes, directors, writers, main_cast, rating
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            genres = excluded.genres,
            release_year = excluded.release_year,
            description = excluded.description,
            img_url = excluded.img_url,
            length_in_minutes = excluded.length_in_minutes,
            directors = excluded.directors,
            writers = excluded.writers,
            main_cast = excluded.main_cast,
            rating = excluded.rating`)
	if err != nil {
		return Wrap("save catalog", fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i, item := range items {
		lists, err := encodeLists(item)
		if err != nil {
			return Wrap("save catalog", fmt.Errorf("encode %s: %w", item.ID, err))
		}

		_, err = stmt.ExecContext(ctx,
			item.ID,
			i,
			item.Title,
			lists.genres,
			item.ReleaseYear,
			item.Description,
			item.ImageURL,
			item.RuntimeMinutes,
			lists.directors,
			lists.writers,
			lists.mainCast,
			item.Rating,
		)
		if err != nil {
			return Wrap("save catalog", fmt.Errorf("insert %s: %w", item.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return Wrap("save catalog", fmt.Errorf("commit: %w", err))
	}

	c.logger.Debug().Int("count", len(items)).Msg("Saved catalog cache")
	return nil
}

// CatalogItems returns the cached catalog in the order it was saved
func (c *CatalogCache) CatalogItems(ctx context.Context) ([]catalog.CatalogItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
            id, title, genres, release_year, description, img_url,
            length_in_minutes, directors, writers, main_cast, rating
        FROM catalog_items ORDER BY position, id`)
	if err != nil {
		return nil, Wrap("read catalog", err)
	}
	defer rows.Close()

	items := make([]catalog.CatalogItem, 0)
	for rows.Next() {
		var (
			item                                  catalog.CatalogItem
			genres, directors, writers, mainCast string
		)
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&genres,
			&item.ReleaseYear,
			&item.Description,
			&item.ImageURL,
			&item.RuntimeMinutes,
			&directors,
			&writers,
			&mainCast,
			&item.Rating,
		); err != nil {
			return nil, Wrap("read catalog", err)
		}

		if err := decodeItemLists(&item, genres, directors, writers, mainCast); err != nil {
			return nil, Wrap("read catalog", fmt.Errorf("item %s: %w", item.ID, err))
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap("read catalog", err)
	}

	return items, nil
}

// Count returns the number of cached items
func (c *CatalogCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM catalog_items").Scan(&n); err != nil {
		return 0, Wrap("count catalog", err)
	}
	return n, nil
}

// listColumns holds the JSON array text for an item's list columns.
// Arrays keep names containing delimiters intact.
type listColumns struct {
	genres, directors, writers, mainCast string
}

func encodeLists(item catalog.CatalogItem) (listColumns, error) {
	var (
		cols listColumns
		err  error
	)
	if cols.genres, err = encodeList(item.Genres); err != nil {
		return cols, err
	}
	if cols.directors, err = encodeList(item.Directors); err != nil {
		return cols, err
	}
	if cols.writers, err = encodeList(item.Writers); err != nil {
		return cols, err
	}
	cols.mainCast, err = encodeList(item.Cast)
	return cols, err
}

func encodeList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeItemLists(item *catalog.CatalogItem, genres, directors, writers, mainCast string) error {
	var err error
	if item.Genres, err = decodeGenres(genres); err != nil {
		return err
	}
	if item.Directors, err = decodeNames("directors", directors); err != nil {
		return err
	}
	if item.Writers, err = decodeNames("writers", writers); err != nil {
		return err
	}
	item.Cast, err = decodeNames("main_cast", mainCast)
	return err
}

func decodeGenres(s string) ([]catalog.Genre, error) {
	genres := []catalog.Genre{}
	if s == "" {
		return genres, nil
	}
	if err := json.Unmarshal([]byte(s), &genres); err != nil {
		return nil, fmt.Errorf("genres: %w", err)
	}
	if genres == nil {
		return []catalog.Genre{}, nil
	}
	for _, g := range genres {
		if !g.IsValid() {
			return nil, &catalog.GenreError{Value: string(g)}
		}
	}
	return genres, nil
}

func decodeNames(column, s string) ([]string, error) {
	names := []string{}
	if s == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("%s: %w", column, err)
	}
	if names == nil {
		return []string{}, nil
	}
	return names, nil
}
