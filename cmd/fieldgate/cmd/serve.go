package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beatforge/fieldgate/internal/core/api"
	"github.com/beatforge/fieldgate/internal/core/auth"
	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/core/db"
	"github.com/beatforge/fieldgate/internal/core/server"
	"github.com/beatforge/fieldgate/internal/core/store"
	"github.com/beatforge/fieldgate/internal/game"
	"github.com/beatforge/fieldgate/internal/rules"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC inspector service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "127.0.0.1", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	serveCmd.Flags().Bool("insecure", false, "disable editor key authentication")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if insecure, _ := cmd.Flags().GetBool("insecure"); insecure {
		cfg.AuthEnabled = false
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RequireMigrated(database); err != nil {
		return err
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	var authenticator *auth.Authenticator
	if cfg.AuthEnabled {
		secrets, err := config.EditorSecrets()
		if err != nil {
			return fmt.Errorf("failed to load editor secrets: %w", err)
		}
		if len(secrets) == 0 {
			return fmt.Errorf("no editor secrets configured (set FG_EDITOR_SECRET or pass --insecure)")
		}
		authenticator = auth.NewAuthenticator(secrets, queries, logger)
	} else {
		logger.Warn("editor key authentication disabled")
	}

	// The service applies cfg.RulesFile itself.
	engine := rules.NewEngine(rules.WithLogger(logger))
	service, err := api.NewInspectorService(engine, game.DefaultCatalog(), cfg,
		api.WithStore(store.New(queries)),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg, service, authenticator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting fieldgate inspector", "version", Version, "host", cfg.Host, "port", cfg.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", "signal", sig.String())
		return grpcServer.Shutdown(ctx)
	}
}
