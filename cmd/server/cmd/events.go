package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Togather-Foundation/campus-events/internal/config"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errCatalogProblems = errors.New("catalog has problems")

func newEventsCommand(opts *rootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the event catalog",
	}
	cmd.PersistentFlags().StringVar(&source, "source", "", "catalog path or URL (default: CATALOG_SOURCE)")

	loadEvents := func(cmd *cobra.Command) ([]catalog.Event, error) {
		cfg, err := opts.loadConfig()
		if err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
		if source == "" {
			source = cfg.Catalog.Source
		}
		logger := config.NewLoggerTo(cfg.Logging, cmd.ErrOrStderr()).Level(zerolog.WarnLevel)
		loader := catalog.NewLoader(source, logger, catalog.WithTimeout(cfg.Catalog.Timeout))
		return loader.Load(cmd.Context())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for duplicate ids and missing fields",
		Long: `Load the catalog the server would load and report records the pages
cannot render sensibly. Exits non-zero when the catalog cannot be read or
has problems.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problems := catalog.Check(events)
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%w: %d found in %d events", errCatalogProblems, len(problems), len(events))
			}
			fmt.Fprintf(out, "%d events OK (%d categories)\n", len(events), len(catalog.Categories(events)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tDATE\tVENUE")
			fmt.Fprintln(w, "--\t-----\t--------\t----\t-----")
			for _, e := range events {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Category, catalog.FormatDate(e.Date), e.Venue)
			}
			return w.Flush()
		},
	})

	return cmd
}
