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

	"github.com/s0up4200/tvdbv4/config"
	"github.com/s0up4200/tvdbv4/filter"
	"github.com/s0up4200/tvdbv4/tvdb"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string

	cfg     *config.Config
	logger  zerolog.Logger
	client  *tvdb.Client
	filters *filter.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tvdbv4",
	Short: "A command line client for TheTVDB v4 API",
	Long: `tvdbv4 queries TheTVDB v4 API: search the catalogue, fetch series,
episodes, seasons, movies, people and more, with their translations.

Credentials are read from the config file or from THETVDB_PIN and
THETVDB_APIKEY.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
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

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn or error")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(translationCmd)
	rootCmd.AddCommand(seriesByNameCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(statusesCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cmd.Context(), cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the file
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cfg.Output.Format != "json" && cfg.Output.Format != "yaml" {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	logger = setupLogger(cfg.Logging)

	opts := []tvdb.Option{
		tvdb.WithBaseURL(cfg.TVDB.BaseURL),
		tvdb.WithTimeout(cfg.TVDB.Timeout),
		tvdb.WithTokenTTL(cfg.TVDB.TokenTTL),
		tvdb.WithUserAgent("tvdbv4/" + version),
	}
	if cfg.TVDB.ResponseCache {
		opts = append(opts, tvdb.WithResponseCache())
	}

	client, err = tvdb.NewClient(tvdb.Credentials{
		Pin:    cfg.TVDB.Pin,
		APIKey: cfg.TVDB.APIKey,
	}, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TheTVDB client: %w", err)
	}

	filters = filter.NewManager(
		filter.WithEvaluator(filter.NewConcurrentEvaluator(filter.WithLogger(logger))),
	)
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.TVDB.BaseURL).
		Int("filter_presets", len(cfg.Filter)).
		Msg("Initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
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

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// skipInit replaces the root PersistentPreRunE for commands that need no
// configuration or client.
func skipInit(cmd *cobra.Command, args []string) error {
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isTerminal(os.Stderr),
	}).With().Timestamp().Logger()
	return nil
}
