package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the catalog service",
	Long:  `Fetch the full catalog once and display basic information about it.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to the catalog at %s...\n", catalogClient.Endpoint())

	movies, err := catalogClient.FetchAll(cmd.Context())
	if err != nil {
		var apiErr *catalog.APIError
		if errors.As(err, &apiErr) && apiErr.IsMissingHeader() {
			return fmt.Errorf("catalog rejected the %s header; check catalog.client_id: %w",
				catalogClient.HeaderName(), err)
		}
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")

	genres := make(map[catalog.Genre]int)
	for _, m := range movies {
		for _, g := range m.Genres {
			genres[g]++
		}
	}

	fmt.Fprintf(out, "\nCatalog Statistics:\n")
	fmt.Fprintf(out, "- Total movies: %d\n", len(movies))
	fmt.Fprintf(out, "- Genres in use: %d\n", len(genres))

	if len(genres) > 0 {
		fmt.Fprintf(out, "\nMovies per genre:\n")
		for _, g := range catalog.Genres() {
			if n := genres[g]; n > 0 {
				fmt.Fprintf(out, "  • %s: %d\n", g.DisplayName(), n)
			}
		}
	}

	if presets := operations.Filters().ListFilters(); len(presets) > 0 {
		fmt.Fprintf(out, "\nPresets: %s\n", strings.Join(presets, ", "))
	}

	return nil
}
