package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/library"
)

var watchlistSort string

// watchlistCmd groups the watchlist subcommands
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage your watchlist",
	Long: `Add, remove and list movies on your watchlist. Movies are resolved against
the locally synced catalog, so run "marquee catalog sync" first.`,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <catalog-id>...",
	Short: "Add movies to the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchlistAdd,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:     "remove <catalog-id>...",
	Aliases: []string{"rm"},
	Short:   "Remove movies from the watchlist",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runWatchlistRemove,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the movies on the watchlist",
	Args:  cobra.NoArgs,
	RunE:  runWatchlistList,
}

func init() {
	watchlistListCmd.Flags().StringVar(&watchlistSort, "sort", "none", "title order: none, asc or desc")
	watchlistListCmd.Flags().BoolVar(&showDetails, "details", false, "show directors, writers, cast and description")
	watchlistListCmd.Flags().BoolVar(&tableOutput, "table", false, "render results as a table")

	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistListCmd)
}

// printChanges prints the watchlist every time a mutation publishes a new view
func printChanges(cmd *cobra.Command) func() {
	id := operations.RegisterObserver(func(movies []catalog.CatalogItem) {
		fmt.Fprint(cmd.OutOrStdout(), operations.Formatter().FormatWatchlist(movies))
		if len(movies) == 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	})
	return func() { operations.UnregisterObserver(id) }
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	defer printChanges(cmd)()

	for _, id := range args {
		created, err := operations.AddToWatchlist(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", id, err)
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already on the watchlist\n", id)
			continue
		}
		logger.Info().Str("id", id).Msg("Added to watchlist")
	}
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	defer printChanges(cmd)()

	for _, id := range args {
		deleted, err := operations.RemoveFromWatchlist(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		if deleted == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not on the watchlist\n", id)
			continue
		}
		logger.Info().Str("id", id).Int("entries", deleted).Msg("Removed from watchlist")
	}
	return nil
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	order, err := filter.ParseSortOrder(watchlistSort)
	if err != nil {
		return err
	}

	movies, err := operations.WatchlistMovies(cmd.Context())
	if err != nil {
		return err
	}
	movies = operations.ApplySort(order, movies)

	out := cmd.OutOrStdout()
	if tableOutput && len(movies) > 0 {
		saved := make(map[string]bool, len(movies))
		for _, m := range movies {
			saved[m.ID] = true
		}
		fmt.Fprintln(out, renderMovieTable(movies, saved))
		return nil
	}

	if showDetails {
		fmt.Fprint(out, operations.Formatter().FormatMovieList(movies, library.FormatOptions{ShowDetails: true}))
	} else {
		fmt.Fprint(out, operations.Formatter().FormatWatchlist(movies))
	}
	if len(movies) == 0 {
		fmt.Fprintln(out)
	}
	return nil
}
