package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/library"
)

var (
	// Remote criteria
	queryText   string
	genreName   string
	releaseYear int
	ratingFrom  float64

	// Local refinement
	searchText  string
	refineGenre string
	sortOrder   string
	filterExpr  string
	preset      string
	showDetails bool
	tableOutput bool
	fromCache   bool
)

// catalogCmd groups the catalog subcommands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the remote movie catalog",
}

// catalogListCmd represents the catalog list command
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog movies matching the given criteria",
	Long: `List movies from the catalog service. --query, --genre, --year and
--rating-from are sent to the service; --search, --refine-genre, --expr, --preset
and --sort are applied locally to the returned movies.`,
	Args: cobra.NoArgs,
	RunE: runCatalogList,
}

// catalogSyncCmd represents the catalog sync command
var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the full catalog into the local cache",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSync,
}

func init() {
	flags := catalogListCmd.Flags()
	flags.StringVarP(&queryText, "query", "q", "", "free-text query sent to the catalog service")
	flags.StringVarP(&genreName, "genre", "g", "", "genre sent to the catalog service")
	flags.IntVarP(&releaseYear, "year", "y", 0, "release year sent to the catalog service")
	flags.Float64VarP(&ratingFrom, "rating-from", "r", 0, "minimum rating sent to the catalog service")
	flags.StringVarP(&searchText, "search", "s", "", "keep titles containing this text")
	flags.StringVar(&refineGenre, "refine-genre", "", "keep movies tagged with this genre")
	flags.StringVar(&sortOrder, "sort", "none", "title order: none, asc or desc")
	flags.StringVarP(&filterExpr, "expr", "e", "", "filter expression")
	flags.StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	flags.BoolVar(&showDetails, "details", false, "show directors, writers, cast and description")
	flags.BoolVar(&tableOutput, "table", false, "render results as a table")
	flags.BoolVar(&fromCache, "cached", false, "list the locally synced catalog instead of querying the service")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSyncCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	order, err := filter.ParseSortOrder(sortOrder)
	if err != nil {
		return err
	}

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	var movies []catalog.CatalogItem
	if fromCache {
		if !criteria.IsEmpty() {
			return fmt.Errorf("--cached cannot be combined with service criteria")
		}
		movies, err = operations.CachedCatalog(ctx)
	} else {
		logger.Info().Str("url", requestURL(criteria)).Msg("Fetching catalog")
		movies, err = operations.FetchFilteredCatalog(ctx, criteria)
	}
	if err != nil {
		return err
	}

	var refine *catalog.Genre
	if refineGenre != "" {
		g, err := catalog.ParseGenre(refineGenre)
		if err != nil {
			return err
		}
		refine = &g
	}
	movies = operations.Refine(movies, searchText, refine)

	if filterExpr != "" {
		movies, err = operations.FilterByExpression(filterExpr, movies)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}
	if preset != "" {
		movies, err = operations.EvaluatePreset(preset, movies)
		if err != nil {
			return err
		}
	}

	movies = operations.ApplySort(order, movies)

	saved, err := operations.WatchlistedIDs(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tableOutput {
		if len(movies) == 0 {
			fmt.Fprintln(out, "No movies found")
			return nil
		}
		fmt.Fprintln(out, renderMovieTable(movies, saved))
		return nil
	}

	fmt.Fprint(out, operations.Formatter().FormatMovieList(movies, library.FormatOptions{
		ShowDetails: showDetails,
		Watchlisted: saved,
	}))
	if len(movies) == 0 {
		fmt.Fprintln(out)
	}
	return nil
}

// criteriaFromFlags builds service criteria from the flags the user set
func criteriaFromFlags(cmd *cobra.Command) (catalog.Criteria, error) {
	criteria := catalog.Criteria{Query: strings.TrimSpace(queryText)}

	if genreName != "" {
		g, err := catalog.ParseGenre(genreName)
		if err != nil {
			return catalog.Criteria{}, err
		}
		criteria.Genre = &g
	}
	if cmd.Flags().Changed("year") {
		year := releaseYear
		criteria.ReleaseYear = &year
	}
	if cmd.Flags().Changed("rating-from") {
		if math.IsNaN(ratingFrom) || ratingFrom < 0 || ratingFrom > 10 {
			return catalog.Criteria{}, fmt.Errorf("--rating-from must be between 0 and 10, got %v", ratingFrom)
		}
		rating := ratingFrom
		criteria.RatingFrom = &rating
	}
	return criteria, nil
}

func requestURL(criteria catalog.Criteria) string {
	u, err := catalog.BuildURL(catalogClient.Endpoint(), criteria)
	if err != nil {
		return catalogClient.Endpoint()
	}
	return u
}

func runCatalogSync(cmd *cobra.Command, args []string) error {
	n, err := operations.SyncCatalog(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to sync catalog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Synced %d movies into %s\n", n, db.Path())
	return nil
}
