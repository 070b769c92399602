package commands

import (
	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/resultstore"
	"ironman-results/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the result files in the results directory.",
	Run: func(cmd *cobra.Command, args []string) {
		store := resultstore.NewStore(cfg.ResultsDir)
		names, err := store.List()
		if err != nil {
			serviceutil.Fatal("failed to list results directory", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "File"})
		for i, name := range names {
			t.AppendRow(table.Row{i + 1, name})
		}
		t.AppendFooter(table.Row{"", cfg.ResultsDir})
		t.Render()
	},
}
