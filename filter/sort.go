package filter

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/catalog"
)

// SortOrder is the state of the title sort toggle.
// The zero value is Unsorted; Next cycles Unsorted -> Ascending -> Descending -> Unsorted.
type SortOrder int

const (
	Unsorted SortOrder = iota
	Ascending
	Descending
)

// Next returns the state reached by one toggle
func (o SortOrder) Next() SortOrder {
	switch o {
	case Unsorted:
		return Ascending
	case Ascending:
		return Descending
	default:
		return Unsorted
	}
}

// Label describes what the next toggle will do
func (o SortOrder) Label() string {
	switch o {
	case Unsorted:
		return "Sort (Asc)"
	case Ascending:
		return "Sort (Desc)"
	default:
		return "Sort (None)"
	}
}

// Apply orders items according to the state. Unsorted returns the items unchanged.
func (o SortOrder) Apply(items []catalog.CatalogItem) []catalog.CatalogItem {
	switch o {
	case Ascending:
		return SortByTitle(items, true)
	case Descending:
		return SortByTitle(items, false)
	default:
		return items
	}
}

// String returns the CLI name of the state
func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortOrder converts a CLI name ("none", "asc", "desc") to a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unsorted":
		return Unsorted, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Unsorted, fmt.Errorf("invalid sort order %q (must be 'none', 'asc' or 'desc')", s)
	}
}
