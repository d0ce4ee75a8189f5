package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/database"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/library"
	"github.com/s0up4200/marquee/watchlist"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	db            *database.DB
	catalogClient *catalog.Client
	operations    *library.Operations

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse a movie catalog and keep a personal watchlist",
	Long: `marquee is a CLI tool that fetches movies from a remote catalog service,
narrows them by text, genre, year, rating or filter expressions, and keeps a
local watchlist of the movies you want to see.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// SetVersion records build information shown by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and wires the database, client and operations
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	catalogClient, err = catalog.NewClient(cfg.Catalog.URL, logger,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithClientHeader(cfg.Catalog.ClientHeader, cfg.Catalog.ClientID),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	db, err = database.Open(cmd.Context(), cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	cache := database.NewCatalogCache(db)
	store := watchlist.NewStore(db.Conn(), cache, logger)
	operations = library.NewOperations(catalogClient, cache, store, logger)

	filters := filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("failed to register presets: %w", err)
	}
	operations.SetFilterManager(filters)

	logger.Debug().
		Str("catalog", catalogClient.Endpoint()).
		Str("database", db.Path()).
		Int("presets", len(filters.ListFilters())).
		Msg("Initialized")
	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; colour only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// versionCmd prints build information without loading configuration
var versionCmd = &cobra.Command{
	Use:                "version",
	Short:              "Print version information",
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s (built %s)\n", version, buildTime)
	},
}
