package cli

import (
	"strconv"
	"time"

	"platedash/internal/store"

	"github.com/spf13/cobra"
)

type journalRows []store.JournalEntry

func (r journalRows) TableHeaders() []string {
	return []string{"AT", "OP", "PLATE", "OK", "ERROR"}
}

func (r journalRows) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, e := range r {
		ok := "yes"
		if !e.OK {
			ok = "no"
		}
		out = append(out, []string{e.At.Local().Format(time.DateTime), e.Op, strconv.Itoa(e.PlateID), ok, e.Error})
	}
	return out
}

func newJournalCmd(app *App) *cobra.Command {
	var (
		limit   int
		plateID string
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local journal of plate mutations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			j, err := st.OpenJournal(cmd.Context(), store.ResolveAPIURL(app.APIURL, cfg))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			var entries []store.JournalEntry
			if cmd.Flags().Changed("plate") {
				id, err := parseIDArg(plateID)
				if err != nil {
					return writeErr(cmd, err)
				}
				entries, err = j.ReadForPlate(cmd.Context(), id, limit)
				if err != nil {
					return writeErr(cmd, err)
				}
			} else {
				entries, err = j.Read(cmd.Context(), limit)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": journalRows(entries)})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max entries to return (0 = all)")
	listCmd.Flags().StringVar(&plateID, "plate", "", "Only entries for this plate id")

	cmd.AddCommand(listCmd)
	return cmd
}
