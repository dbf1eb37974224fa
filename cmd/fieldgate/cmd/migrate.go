package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		applied, err := db.MigrateUp(database)
		if err != nil {
			return err
		}
		slog.Info("migrations applied", "count", len(applied))
		for _, id := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", id)
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		statuses, err := db.MigrateStatus(database)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tSTATE\tAPPLIED AT")
		for _, s := range statuses {
			state, at := "pending", ""
			if s.Applied {
				state = "applied"
				if s.AppliedAt != nil {
					at = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, state, at)
		}
		return w.Flush()
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
