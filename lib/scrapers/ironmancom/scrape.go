package ironmancom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ironman-results/lib/ironman"
)

type Sink interface {
	Save(event ironman.Event, rows []ironman.Row) (string, error)
}

type ScrapeOptions struct {
	// a single race url or path, overrides Filter
	Race   string
	Filter RaceFilter
	Years  []int
}

type Summary struct {
	Races     int
	Subevents int
	Saved     []string
}

// Scrape finds the races matching opts and saves the results of every
// subevent to sink. A failing race is logged and skipped, the failures are
// returned joined once every race was tried.
func (c *Client) Scrape(ctx context.Context, opts ScrapeOptions, sink Sink) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	var summary Summary
	var raceLinks []string
	if opts.Race != "" {
		link := c.ResolveRaceUrl(opts.Race)
		slog.InfoContext(ctx, "processing single race", "url", link)
		raceLinks = []string{link}
	} else {
		links, err := c.GetRaceLinks(ctx, opts.Filter)
		if err != nil {
			return summary, err
		}
		raceLinks = links
	}
	summary.Races = len(raceLinks)

	var errList []error
	for _, link := range raceLinks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		err := c.scrapeRace(ctx, link, opts.Years, sink, &summary)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return summary, err
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch results for race", "race", link, "err", err)
			errList = append(errList, fmt.Errorf("%s: %w", link, err))
		}
	}

	slog.InfoContext(
		ctx, "scraping completed",
		"races", summary.Races,
		"subevents", summary.Subevents,
		"saved", len(summary.Saved),
	)
	return summary, errors.Join(errList...)
}

func (c *Client) scrapeRace(ctx context.Context, raceUrl string, years []int, sink Sink, summary *Summary) error {
	slog.InfoContext(ctx, "processing race", "url", raceUrl)

	eventID, err := c.GetEventID(ctx, raceUrl)
	if err != nil {
		return err
	}
	if err := c.pause(ctx); err != nil {
		return err
	}

	subevents, err := c.GetSubevents(ctx, eventID, years)
	if err != nil {
		return err
	}
	if len(subevents) == 0 {
		slog.InfoContext(ctx, "no subevents found", "race", raceUrl)
		return nil
	}
	summary.Subevents += len(subevents)

	var errList []error
	for _, sub := range subevents {
		if sub.EventID == "" {
			slog.InfoContext(ctx, "missing event id for subevent, skipping", "subevent", sub.Name)
			continue
		}
		if err := c.pause(ctx); err != nil {
			return err
		}

		slog.InfoContext(
			ctx, "processing subevent",
			"name", sub.Name,
			"date", sub.Date,
			"id", sub.EventID,
		)
		rows, err := c.GetResults(ctx, sub.EventID)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		path, err := sink.Save(ironman.Event{
			ID:   sub.EventID,
			Name: sub.Name,
			Date: sub.Date,
		}, rows)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "results saved", "path", path)
		summary.Saved = append(summary.Saved, path)
	}
	return errors.Join(errList...)
}
