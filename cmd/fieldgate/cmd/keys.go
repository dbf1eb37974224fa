package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatforge/fieldgate/internal/core/auth"
	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/core/db"
	"github.com/beatforge/fieldgate/internal/core/store"
	"github.com/beatforge/fieldgate/internal/types"
)

var keyEditor string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage editor keys",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a new editor key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, closeDB, err := openQueries()
		if err != nil {
			return err
		}
		defer closeDB()

		secrets, err := config.EditorSecrets()
		if err != nil {
			return fmt.Errorf("failed to load editor secrets: %w", err)
		}
		authenticator := auth.NewAuthenticator(secrets, queries, slog.Default())
		key, keyID, err := authenticator.Issue(context.Background(), keyEditor)
		if err != nil {
			return err
		}

		// The key is only shown once.
		fmt.Fprintf(cmd.OutOrStdout(), "key_id: %s\nkey:    %s\n", keyID, key)
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued editor keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, closeDB, err := openQueries()
		if err != nil {
			return err
		}
		defer closeDB()

		keys, err := store.New(queries).ListEditorKeys(context.Background())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY ID\tEDITOR\tCREATED\tSTATE")
		for _, k := range keys {
			state := "active"
			if k.RevokedAt.Valid {
				state = "revoked"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k.KeyID, k.Editor, k.CreatedAt.UTC().Format("2006-01-02"), state)
		}
		return w.Flush()
	},
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke KEY_ID",
	Short: "Revoke an editor key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, closeDB, err := openQueries()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := store.New(queries).RevokeEditorKey(context.Background(), types.KeyID(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
		return nil
	},
}

func init() {
	keysCreateCmd.Flags().StringVar(&keyEditor, "editor", "", "name of the editor the key is issued to")
	_ = keysCreateCmd.MarkFlagRequired("editor")
	keysCmd.AddCommand(keysCreateCmd, keysListCmd, keysRevokeCmd)
	rootCmd.AddCommand(keysCmd)
}

// openQueries opens a migrated database and loads its named queries.
func openQueries() (*db.Queries, func(), error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RequireMigrated(database); err != nil {
		database.Close()
		return nil, nil, err
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return queries, func() { database.Close() }, nil
}
