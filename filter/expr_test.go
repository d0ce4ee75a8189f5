package filter_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/catalog/catalogtest"
	"github.com/s0up4200/marquee/filter"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasGenre("drama")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasGenre("unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown identifier",
			expression: `Popularity > 3`,
			wantErr:    true,
		},
		{
			name:       "not boolean",
			expression: `Rating + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre("animation") and Year > 2000 and Rating >= 7.0`,
		},
	}

	compiler := filter.NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *filter.CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.expression), compiled.Expression())
		})
	}
}

func TestExprEvaluation(t *testing.T) {
	movies := catalogtest.Movies()

	tests := []struct {
		name       string
		expression string
		expected   []string
	}{
		{
			name:       "genre helper accepts loose names",
			expression: `hasGenre("science fiction")`,
			expected:   []string{"Inception"},
		},
		{
			name:       "rating threshold",
			expression: `Rating >= 9`,
			expected:   []string{"The Godfather", "The Shawshank Redemption"},
		},
		{
			name:       "year range and runtime",
			expression: `Year >= 2000 and Runtime < 130`,
			expected:   []string{"Puss in Boots", "Spirited Away"},
		},
		{
			name:       "director",
			expression: `directedBy("christopher nolan")`,
			expected:   []string{"Inception"},
		},
		{
			name:       "cast member",
			expression: `stars("Morgan Freeman") or stars("Brad Pitt")`,
			expected:   []string{"The Shawshank Redemption", "Fight Club"},
		},
		{
			name:       "writer",
			expression: `writtenBy("Stephen King")`,
			expected:   []string{"The Shawshank Redemption"},
		},
		{
			name:       "title helper",
			expression: `startsWith(Title, "the") and not contains(Title, "shawshank")`,
			expected:   []string{"The Godfather"},
		},
		{
			name:       "genre list",
			expression: `"FAMILY" in Genres`,
			expected:   []string{"Spirited Away"},
		},
		{
			name:       "no genres",
			expression: `len(Genres) == 0`,
			expected:   []string{"Untitled Short"},
		},
	}

	compiler := filter.NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, catalogtest.Titles(filter.Apply(compiled, movies)))
		})
	}
}

func TestExprCache(t *testing.T) {
	compiler := filter.NewExprCompiler(filter.WithCache(2))
	assert.Equal(t, 0, compiler.Size())

	first, err := compiler.Compile(`Rating > 5`)
	require.NoError(t, err)
	again, err := compiler.Compile(`Rating > 5`)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Rating > 6`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Rating > 7`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestExprCustomFunctions(t *testing.T) {
	compiler := filter.NewExprCompiler(filter.WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year < 1980 },
	}))

	compiled, err := compiler.Compile(`isClassic(Year)`)
	require.NoError(t, err)

	assert.True(t, compiled.Evaluate(catalog.CatalogItem{ReleaseYear: 1972}))
	assert.False(t, compiled.Evaluate(catalog.CatalogItem{ReleaseYear: 2010}))
}
