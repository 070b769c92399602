package commands

import (
	"fmt"
	"os"
	"strings"

	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(qualifyCmd)
}

var qualifyCmd = &cobra.Command{
	Use:   "qualify <file or #>",
	Short: "Prints the slot allocation and the qualifiers of every age group of a race.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		race, err := loadRace(args[0])
		if err != nil {
			serviceutil.Fatal("failed to load race", err)
		}
		res, err := qualifyRace(race)
		if err != nil {
			fmt.Fprintln(os.Stderr, utils.ErrorColors.Sprint(race.Event.Name+": "+describeQualifyError(err)))
			os.Exit(1)
		}

		t := utils.NewTable()
		t.SetTitle(fmt.Sprintf("%s (slots: %s)", race.Event.Name, res.SlotsName))
		t.AppendHeader(table.Row{
			"Age Group", "Starters", "Finishers", "Allocated", "Released", "Received", "Final", "Unused", "Qualifiers",
		})
		var starters, finishers, allocated, unused int
		for _, g := range res.Outcome.Groups {
			names := make([]string, len(g.Qualifiers))
			for i, q := range g.Qualifiers {
				names[i] = fmt.Sprintf("%d. %s (%s)", q.AgeGroupRank, q.Name, q.FinishTime)
			}
			t.AppendRow(table.Row{
				g.AgeGroup, g.Starters, g.Finishers, g.Allocated,
				g.Released, g.Received, g.Final, g.Unused,
				strings.Join(names, "\n"),
			})
			starters += g.Starters
			finishers += g.Finishers
			allocated += g.Allocated
			unused += g.Unused
		}
		t.AppendFooter(table.Row{
			"Total", starters, finishers, allocated, "", "",
			res.Outcome.FinalSlots(), unused, res.Outcome.QualifierCount(),
		})
		t.Render()
	},
}
