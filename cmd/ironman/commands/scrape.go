package commands

import (
	"log/slog"
	"time"

	"ironman-results/lib/resultstore"
	"ironman-results/lib/scrapers/ironmancom"
	"ironman-results/lib/serviceutil"
	"ironman-results/lib/telemetry"

	"github.com/spf13/cobra"
)

var scrapeRace *string
var scrapeRaceTypes *[]string
var scrapeRegions *[]string
var scrapeYears *[]int
var scrapeMaxPages *int
var scrapeDumpHttp *string

func init() {
	scrapeRace = scrapeCmd.Flags().String("race", "", "Scrape a single race, either its url or a path like races/im703-oregon.")
	scrapeRaceTypes = scrapeCmd.Flags().StringSlice("race-type", nil, "Only races of this type (repeatable), see `ironman options`.")
	scrapeRegions = scrapeCmd.Flags().StringSlice("region", nil, "Only races in this region (repeatable), see `ironman options`.")
	scrapeYears = scrapeCmd.Flags().IntSlice("year", nil, "Only subevents held in this year (repeatable).")
	scrapeMaxPages = scrapeCmd.Flags().Int("max-pages", 0, "Stop after this many pages of the race listing, 0 reads every page.")
	scrapeDumpHttp = scrapeCmd.Flags().String("dump-http", "", "Write every http exchange into this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--race <url>] [--race-type <type>] [--region <region>] [--year <year>]",
	Short: "Scrapes race results and writes one json file per subevent into the results directory.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		opts := ironmancom.ScrapeOptions{
			Race: *scrapeRace,
			Filter: ironmancom.RaceFilter{
				RaceTypes: *scrapeRaceTypes,
				Regions:   *scrapeRegions,
				MaxPages:  *scrapeMaxPages,
			},
			Years: *scrapeYears,
		}
		if err := opts.Filter.Validate(); err != nil {
			serviceutil.Fatal("invalid race filter", err)
		}

		client := createClient(*scrapeDumpHttp)
		store := resultstore.NewStore(cfg.ResultsDir)
		telemetry.InstrumentPerfStats(ctx, 15*time.Second)

		t1 := time.Now()
		summary, err := client.Scrape(ctx, opts, store)
		t2 := time.Now()

		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds(), "saved", len(summary.Saved))
		if err != nil {
			serviceutil.Fatal("some races could not be scraped", err)
		}
	},
}
