package ironmancom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"ironman-results/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var RaceTypes = []string{
	"IRONMAN 70.3",
	"IRONMAN",
	"Short Course Tri",
	"Pro Series",
	"World Championship",
	"5150 and International",
}

var Regions = []string{
	"Europe",
	"North America",
	"Latin America",
	"Asia",
	"Oceania",
	"Africa",
	"Canada",
	"Middle East",
}

type RaceFilter struct {
	RaceTypes []string
	Regions   []string
	// 0 means every page
	MaxPages int
}

func (f RaceFilter) Validate() error {
	for _, rt := range f.RaceTypes {
		if !contains(RaceTypes, rt) {
			return fmt.Errorf("unknown race type %q", rt)
		}
	}
	for _, r := range f.Regions {
		if !contains(Regions, r) {
			return fmt.Errorf("unknown region %q", r)
		}
	}
	if f.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FilterQuery builds the facet query of the race search page, race types
// come first, then regions, each facet numbered in order.
func FilterQuery(f RaceFilter, page int) string {
	var params []string
	idx := 0
	for _, rt := range f.RaceTypes {
		params = append(params, fmt.Sprintf("facet[%d]=%s", idx, url.QueryEscape("race:"+rt)))
		idx++
	}
	for _, r := range f.Regions {
		params = append(params, fmt.Sprintf("facet[%d]=%s", idx, url.QueryEscape("region:"+r)))
		idx++
	}
	if page > 0 {
		params = append(params, "page="+strconv.Itoa(page))
	}
	return strings.Join(params, "&")
}

const raceCardSelector = "div.races-search-view__cards-row article"

// ParseRaceCards returns the race page links of a race search result page.
func ParseRaceCards(ctx context.Context, base *url.URL, body io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(raceCardSelector).Each(func(_ int, card *goquery.Selection) {
		anchors := htmlutil.GetAnchors(ctx, base, card.Find("a[href]").First())
		if len(anchors) > 0 {
			links = append(links, anchors[0].Href)
		}
	})
	return links, nil
}

// GetRaceLinks walks the paginated race search until a page has no race
// cards or MaxPages pages were read.
func (c *Client) GetRaceLinks(ctx context.Context, filter RaceFilter) ([]string, error) {
	ctx, span := tracer.Start(ctx, "GetRaceLinks")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	searchUrl := c.baseUrl.ResolveReference(&url.URL{Path: "/races"})
	seen := make(map[string]struct{})
	var links []string

	for page := 0; filter.MaxPages == 0 || page < filter.MaxPages; page++ {
		if page > 0 {
			if err := c.pause(ctx); err != nil {
				return links, err
			}
		}

		pageUrl := *searchUrl
		pageUrl.RawQuery = FilterQuery(filter, page)
		slog.DebugContext(ctx, "fetching race list page", "page", page, "url", pageUrl.String())

		res, err := c.get(ctx, pageUrl.String(), nil)
		if err != nil {
			// the search runs past its last page with an error on some filters
			slog.WarnContext(ctx, "failed to fetch race list page", "page", page, "err", err)
			span.RecordError(err)
			break
		}

		found, err := ParseRaceCards(ctx, c.baseUrl, bytes.NewReader(res.Body()))
		if err != nil {
			span.SetStatus(codes.Error, "failed to parse race list")
			return links, err
		}
		if len(found) == 0 {
			slog.DebugContext(ctx, "no more races", "page", page)
			break
		}

		added := 0
		for _, link := range found {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
			added++
		}
		slog.DebugContext(ctx, "found races", "page", page, "count", added)
		if added == 0 {
			break
		}
	}

	span.SetAttributes(attribute.Int("races", len(links)))
	slog.InfoContext(ctx, "race search finished", "races", len(links))
	return links, nil
}
