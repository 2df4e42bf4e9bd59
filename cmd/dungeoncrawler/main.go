// dungeoncrawler generates dungeon floors and plays turn-based battles
// headlessly from the terminal.
//
// Usage:
//
//	dungeoncrawler generate            - Generate a floor and print it as ASCII
//	dungeoncrawler battle              - Auto-play a single battle
//	dungeoncrawler run                 - Play several floors end-to-end
//	dungeoncrawler history             - Show recorded encounters
//	dungeoncrawler classes             - List playable classes
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible runs
//	--config <path>    - Use a specific config file
//	--db <path>        - Set history database path (default from config)
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/config"
	"github.com/samdwyer/dungeoncrawler/internal/storage"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

var (
	// Global flags
	flagSeed      int64
	flagConfig    string
	flagDBPath    string
	flagLogLevel  string
	flagNoHistory bool

	// Set up in PersistentPreRunE
	logger            *log.Logger
	settings          config.Config
	shutdownTelemetry func(context.Context) error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dungeoncrawler",
	Short: "Dungeon Crawler - procedural floors and turn-based battles",
	Long: `Dungeon Crawler generates room-and-corridor dungeon floors and resolves
turn-based battles between a player class and groups of monsters.

Available commands:
  generate - Generate a floor and print it
  battle   - Auto-play one battle
  run      - Play floors end-to-end, boss on the last floor
  history  - Show recorded encounters
  classes  - List playable classes

Examples:
  dungeoncrawler generate --floor 2 --seed 42
  dungeoncrawler battle --class knight --enemies goblin,orc
  dungeoncrawler run --floors 3 --class vampire
  dungeoncrawler history`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record floors and encounters")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(battleCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(classesCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
		Prefix:          "dungeoncrawler",
	})
	log.SetDefault(logger)

	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debug(".env file not loaded", "err", err)
	}
	setupOTelEnv()

	shutdownTelemetry, err = telemetry.Setup(cmd.Context())
	if err != nil {
		logger.Warn("telemetry setup failed, continuing without tracing", "err", err)
		shutdownTelemetry = nil
	}

	settings, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath == "" {
		flagDBPath = settings.Storage.Path
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if shutdownTelemetry == nil {
		return nil
	}
	if err := shutdownTelemetry(context.Background()); err != nil {
		logger.Warn("telemetry shutdown failed", "err", err)
	}
	return nil
}

// setupOTelEnv configures OTEL environment variables from the Honeycomb
// shorthand variables when no OTLP endpoint is set explicitly.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONCRAWLER_API_KEY")
	if apiKey == "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_DUNGEONCRAWLER_DATASET")
	if dataset == "" {
		dataset = "dungeoncrawler"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}

// openHistory opens the history store unless disabled. Failure is not
// fatal: the game runs without recording.
func openHistory() *storage.Store {
	if flagNoHistory {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
