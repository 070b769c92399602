package commands

import (
	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/browse"
	"ironman-results/lib/scrapers/ironmancom"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func optionRows(values ...[]string) []table.Row {
	longest := 0
	for _, v := range values {
		longest = max(longest, len(v))
	}
	rows := make([]table.Row, longest)
	for i := range rows {
		rows[i] = make(table.Row, len(values))
		for j, v := range values {
			if i < len(v) {
				rows[i][j] = v[i]
			}
		}
	}
	return rows
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Prints the race types, regions and table columns that the other commands accept.",
	Run: func(cmd *cobra.Command, args []string) {
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Race Types (--race-type)", "Regions (--region)", "Columns (show)"})
		t.AppendRows(optionRows(ironmancom.RaceTypes, ironmancom.Regions, browse.ColumnNames()))
		t.Render()
	},
}
