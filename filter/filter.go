package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/s0up4200/marquee/catalog"
)

// Items keeps the items whose title contains searchText (ignoring case) and that are
// tagged with genre. An empty searchText or a nil genre matches everything.
// Surviving items keep their input order; the input slice is not modified.
func Items(items []catalog.CatalogItem, searchText string, genre *catalog.Genre) []catalog.CatalogItem {
	if searchText == "" && genre == nil {
		return slices.Clone(items)
	}

	// A Caser holds state and must not be shared between goroutines.
	fold := cases.Fold()
	needle := fold.String(searchText)

	matches := make([]catalog.CatalogItem, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(fold.String(item.Title), needle) {
			continue
		}
		if genre != nil && !item.HasGenre(*genre) {
			continue
		}
		matches = append(matches, item)
	}
	return matches
}

// SortByTitle returns the items ordered by title. Equal titles keep their input order.
func SortByTitle(items []catalog.CatalogItem, ascending bool) []catalog.CatalogItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b catalog.CatalogItem) int {
		if ascending {
			return strings.Compare(a.Title, b.Title)
		}
		return strings.Compare(b.Title, a.Title)
	})
	return sorted
}
