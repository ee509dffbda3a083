package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

const maxListedDistricts = 6

func newLocationsCommand(opts *rootOptions) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List the states and districts questions can name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.cliLogger()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			st, err := store.LoadFile(cfg.Data.DatasetPath, logger)
			if err != nil {
				return err
			}
			return writeLocations(cmd.OutOrStdout(), st, state)
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "", "only list this state, with every district")

	return cmd
}

// writeLocations renders one row per state. Without a state filter long
// district lists are shortened.
func writeLocations(w io.Writer, st *store.Store, state string) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"State", "Districts", "Records"})

	states, records := 0, 0
	for _, name := range st.States() {
		if state != "" && !strings.EqualFold(name, state) {
			continue
		}
		districts := st.DistrictsOf(name)
		recs, _ := st.StateRecords(name)

		shown := districts
		if state == "" && len(shown) > maxListedDistricts {
			shown = append(shown[:maxListedDistricts:maxListedDistricts], fmt.Sprintf("+%d more", len(districts)-maxListedDistricts))
		}

		tbl.AppendRow(table.Row{name, strings.Join(shown, ", "), humanize.Comma(int64(len(recs)))})
		states++
		records += len(recs)
	}

	if state != "" && states == 0 {
		return fmt.Errorf("no state named %q in the dataset", state)
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d states", states), "", humanize.Comma(int64(records))})
	tbl.Render()
	return nil
}
