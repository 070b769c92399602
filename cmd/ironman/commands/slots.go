package commands

import (
	"log/slog"
	"strings"

	"ironman-results/cmd/ironman/utils"
	"ironman-results/lib/serviceutil"
	"ironman-results/lib/slotstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var slotsUrls *[]string
var slotsDryRun *bool

func init() {
	slotsUrls = slotsCmd.Flags().StringSlice("url", nil, "Qualifying events page to scrape (repeatable), defaults to the configured pages.")
	slotsDryRun = slotsCmd.Flags().Bool("dry-run", false, "Print the scraped slots without writing the slots file.")
	rootCmd.AddCommand(slotsCmd)
}

var slotsCmd = &cobra.Command{
	Use:   "slots [--url <qualifying events page>]",
	Short: "Scrapes the qualifying events pages and merges their slot totals into the slots file.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		urls := *slotsUrls
		if len(urls) == 0 {
			urls = cfg.QualifyingUrls
		}

		client := createClient("")
		scraped := slotstore.NewFile()
		for _, link := range urls {
			rows, err := client.GetQualifyingSlots(ctx, link)
			if err != nil {
				serviceutil.Fatal("failed to scrape qualifying slots", err)
			}
			for _, row := range rows {
				scraped.Put(row.Race, slotstore.Race{
					Date:       row.Date,
					Location:   row.Location,
					MenSlots:   row.MenSlots,
					WomenSlots: row.WomenSlots,
				})
			}
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Race", "Date", "Location", "Men", "Women"})
		for _, name := range scraped.Names() {
			race := scraped.Slots[name]
			t.AppendRow(table.Row{name, race.Date, race.Location, race.MenSlots, race.WomenSlots})
		}
		t.Render()

		if *slotsDryRun {
			return
		}
		file, err := slotstore.ReadOrNew(cfg.SlotsFile)
		if err != nil {
			serviceutil.Fatal("failed to read slots file", err)
		}
		file.Merge(scraped)
		err = file.Write(cfg.SlotsFile)
		if err != nil {
			serviceutil.Fatal("failed to write slots file", err)
		}
		slog.Info(
			"slots file updated",
			"path", cfg.SlotsFile,
			"races", len(file.Slots),
			"pages", strings.Join(urls, ", "),
		)
	},
}
