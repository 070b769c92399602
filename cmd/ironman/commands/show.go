package commands

import (
	"fmt"
	"os"

	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/browse"
	"ironman-results/lib/ironman"
	"ironman-results/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showFilters *[]string
var showSort *string
var showDesc *bool
var showQualifiers *bool
var showOnlyQualifiers *bool
var showColumns *[]string

func init() {
	showFilters = showCmd.Flags().StringArray("filter", nil, "Only rows where column=value (repeatable, all must match), \"none\" matches empty cells.")
	showSort = showCmd.Flags().String("sort", "", "Sort by this column, empty cells always come last.")
	showDesc = showCmd.Flags().Bool("desc", false, "Sort descending.")
	showQualifiers = showCmd.Flags().Bool("qualifiers", false, "Highlight the athletes that qualified for the world championship.")
	showOnlyQualifiers = showCmd.Flags().Bool("only-qualifiers", false, "Only show the athletes that qualified.")
	showColumns = showCmd.Flags().StringSlice("columns", []string{
		"name", "age_group", "overall_time", "age_group_rank", "swim_time", "bike_time", "run_time", "finisher",
	}, "Columns to show, see `ironman options`.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <file or #> [--filter <column=value>] [--sort <column> [--desc]] [--qualifiers]",
	Short: "Shows the results of a race as a table.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		race, err := loadRace(args[0])
		if err != nil {
			serviceutil.Fatal("failed to load race", err)
		}

		query := browse.Query{
			Sort:           *showSort,
			Descending:     *showDesc,
			OnlyQualifiers: *showOnlyQualifiers,
		}
		for _, expr := range *showFilters {
			filter, err := browse.ParseFilter(expr)
			if err != nil {
				serviceutil.Fatal("invalid filter", err)
			}
			query.Filters = append(query.Filters, filter)
		}
		if len(*showColumns) == 0 {
			serviceutil.Fatal("invalid columns", fmt.Errorf("at least one column is required"))
		}
		columns := make([]browse.Column, len(*showColumns))
		for i, name := range *showColumns {
			columns[i], err = browse.LookupColumn(name)
			if err != nil {
				serviceutil.Fatal("invalid column", err)
			}
		}

		var isQualifier func(ironman.RaceResult) bool
		if *showQualifiers || *showOnlyQualifiers {
			res, err := qualifyRace(race)
			if err != nil {
				// no partial highlighting, the whole race is shown unmarked
				fmt.Fprintln(os.Stderr, utils.ErrorColors.Sprint("cannot mark qualifiers: "+describeQualifyError(err)))
				if *showOnlyQualifiers {
					os.Exit(1)
				}
			} else {
				isQualifier = res.Outcome.IsQualifier
			}
		}

		rows, err := browse.Apply(race.Results, query, isQualifier)
		if err != nil {
			serviceutil.Fatal("failed to apply view", err)
		}

		t := utils.NewTable()
		t.SetTitle(race.Event.Name)
		header := make(table.Row, len(columns))
		for i, c := range columns {
			header[i] = c.Header
		}
		t.AppendHeader(header)
		qualifiers := 0
		for _, r := range rows {
			row := make(table.Row, len(columns))
			for i, c := range columns {
				cell := c.Text(r.Result)
				if r.Qualifier {
					cell = utils.QualifierColors.Sprint(cell)
				}
				row[i] = cell
			}
			if r.Qualifier {
				qualifiers++
			}
			t.AppendRow(row)
		}
		footer := make(table.Row, len(columns))
		footer[0] = fmt.Sprintf("%d of %d", len(rows), len(race.Results))
		if isQualifier != nil && len(columns) > 1 {
			footer[1] = fmt.Sprintf("%d qualifiers", qualifiers)
		}
		t.AppendFooter(footer)
		t.Render()
	},
}
