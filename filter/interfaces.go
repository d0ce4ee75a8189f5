package filter

import (
	"github.com/s0up4200/marquee/catalog"
)

// Filter defines the basic interface for catalog item filters
type Filter interface {
	// Evaluate checks if an item matches the filter criteria
	Evaluate(item catalog.CatalogItem) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Apply returns the items matching f, preserving order
func Apply(f Filter, items []catalog.CatalogItem) []catalog.CatalogItem {
	matches := make([]catalog.CatalogItem, 0, len(items))
	for _, item := range items {
		if f.Evaluate(item) {
			matches = append(matches, item)
		}
	}
	return matches
}
