package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/domain/contact"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newContactCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Inspect contact form submissions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored contact messages, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *storage.Adapter, logger zerolog.Logger) error {
				messages, err := contact.NewService(store, nil, logger).List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list contact submissions: %w", err)
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(messages)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tMESSAGE")
				fmt.Fprintln(w, "--------\t----\t-----\t-------")
				for _, m := range messages {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Timestamp.Format(time.RFC3339), m.Name, m.Email, truncate(m.Message, 60))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.AddCommand(list)
	return cmd
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
