package commands

import (
	"log/slog"

	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/qualify"
	"ironman-results/lib/resultdb"
	"ironman-results/lib/resultstore"
	"ironman-results/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var exportDb *string

func init() {
	exportDb = exportCmd.Flags().String("db", "results.db", "The sqlite file or libsql url to export to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path/to/output.db>] [file or #...]",
	Short: "Exports races, their results and qualifier flags to a database, every result file by default.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if len(args) == 0 {
			names, err := resultstore.NewStore(cfg.ResultsDir).List()
			if err != nil {
				serviceutil.Fatal("failed to list results directory", err)
			}
			args = names
		}

		database, err := resultdb.Open(*exportDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		store := resultdb.NewStore(database)

		for _, arg := range args {
			race, err := loadRace(arg)
			if err != nil {
				slog.WarnContext(ctx, "failed to load race, skipping", "file", arg, "err", err)
				continue
			}
			var outcome qualify.Outcome
			res, err := qualifyRace(race)
			if err != nil {
				slog.WarnContext(ctx, "exporting without qualifiers", "race", race.Event.Name, "reason", describeQualifyError(err))
			} else {
				outcome = res.Outcome
			}
			err = store.Push(ctx, race, outcome)
			if err != nil {
				serviceutil.Fatal("failed to export race", err)
			}
		}

		races, err := store.Races(ctx)
		if err != nil {
			serviceutil.Fatal("failed to read exported races", err)
		}
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Race", "Date", "Results", "Qualifiers", "Exported"})
		for _, r := range races {
			t.AppendRow(table.Row{r.Name, r.Date, r.Results, r.Qualifiers, r.ExportedAt.Format("2006-01-02 15:04")})
		}
		t.Render()
	},
}
