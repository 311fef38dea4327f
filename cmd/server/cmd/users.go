package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/config"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// withStore opens the configured storage for a one-shot command.
func withStore(cmd *cobra.Command, opts *rootOptions, fn func(*storage.Adapter, zerolog.Logger) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := config.NewLoggerTo(cfg.Logging, cmd.ErrOrStderr())
	back, store, err := openStorage(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = back.Close() }()
	return fn(store, logger)
}

func newUsersCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect visitor accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered accounts (password hashes are never shown)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *storage.Adapter, logger zerolog.Logger) error {
				users, err := accounts.NewManager(store, logger).Accounts(cmd.Context())
				if err != nil {
					return fmt.Errorf("list accounts: %w", err)
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(users)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tEVENTS\tCREATED")
				fmt.Fprintln(w, "--\t----\t-----\t------\t-------")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", u.ID, u.Name, u.Email, len(u.RegisteredEvents), u.CreatedAt.Format(time.DateOnly))
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d account(s)\n", len(users))
				return nil
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.AddCommand(list)
	return cmd
}
