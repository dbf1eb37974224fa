package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/core/db"
	"github.com/beatforge/fieldgate/internal/game"
	"github.com/beatforge/fieldgate/internal/rules"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "fieldgate",
	Short: "fieldgate inspects and edits game data documents field by field",
	Long: `fieldgate exposes the editable fields of chart, boss animation and note
visual documents according to their access rules, and serves them to editor
tooling over gRPC.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return fmt.Errorf("invalid --log-format %q (want json or text)", logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// openDatabase opens --db-url, falling back to the configured database URL.
func openDatabase(cfg *config.InspectorConfig) (*sqlx.DB, error) {
	url := dbURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("--db-url required (or set FG_DATABASE_URL)")
	}
	database, err := db.Open(url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// loadEngine builds the rules engine and catalog, applying the configured
// rule file if any.
func loadEngine(cfg *config.InspectorConfig) (*rules.Engine, *game.Catalog, error) {
	engine := rules.NewEngine(rules.WithLogger(slog.Default()))
	catalog := game.DefaultCatalog()
	if cfg.RulesFile == "" {
		return engine, catalog, nil
	}
	rf, err := rules.LoadRuleFile(cfg.RulesFile)
	if err != nil {
		return nil, nil, err
	}
	if err := engine.ApplyRuleFile(rf, catalog.ResolveType); err != nil {
		return nil, nil, fmt.Errorf("rule file %s: %w", cfg.RulesFile, err)
	}
	return engine, catalog, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return nil, fmt.Errorf("stdin input not supported, pass a file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
