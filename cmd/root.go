package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/reelist/reelist/config"
	"github.com/reelist/reelist/omdb"
	"github.com/reelist/reelist/watchlist"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	catalogClient *omdb.Client
	store         *watchlist.Store

	// Command flags
	pageFlag   int
	byTitle    bool
	filterExpr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelist",
	Short: "Explore the OMDb movie catalog and keep a watchlist",
	Long: `reelist is a CLI movie explorer backed by the OMDb catalog API.

Search titles page by page, pull up full details for any result, and keep
a locally persisted watchlist you can filter with expressions.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version string shown by --version.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration, logger, catalog client and
// watchlist store
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create catalog client
	catalogClient, err = omdb.NewClient(cfg.OMDb.APIKey, logger,
		omdb.WithBaseURL(cfg.OMDb.BaseURL),
		omdb.WithTimeout(time.Duration(cfg.OMDb.Timeout)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	// The watchlist lives on the real filesystem; tests swap in a memory fs.
	store = watchlist.NewStore(afero.NewOsFs(), cfg.Watchlist.Path, logger)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
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

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the OMDb catalog",
	Long:  `Test the connection to OMDb and verify the configured API key works.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to OMDb at %s...\n", cfg.OMDb.BaseURL)

	ctx := context.Background()
	if err := catalogClient.Test(ctx); err != nil {
		if msg, ok := omdb.IsUpstream(err); ok {
			return fmt.Errorf("catalog rejected the request: %s", msg)
		}
		return fmt.Errorf("failed to reach OMDb: %w", err)
	}

	fmt.Println("✓ Connection successful!")

	list := store.Load()
	fmt.Printf("\nWatchlist: %d entries at %s\n", len(list), cfg.Watchlist.Path)

	return nil
}
