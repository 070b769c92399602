package ironmancom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoEventID = errors.New("no competitor event id on race results page")
var ErrNoNextData = errors.New("no __NEXT_DATA__ script on event page")

var eventIdRegex = regexp.MustCompile(`https://labs-v2\.competitor\.com/results/event/([a-f0-9-]{36})`)

// ParseEventID finds the competitor labs event id embedded in a race's
// results page.
func ParseEventID(body []byte) (string, error) {
	match := eventIdRegex.FindSubmatch(body)
	if len(match) < 2 {
		return "", ErrNoEventID
	}
	return string(match[1]), nil
}

func (c *Client) GetEventID(ctx context.Context, raceUrl string) (string, error) {
	ctx, span := tracer.Start(ctx, "GetEventID")
	defer span.End()

	resultsUrl := raceUrl + "/results"
	res, err := c.get(ctx, resultsUrl, nil)
	if err != nil {
		return "", err
	}
	id, err := ParseEventID(res.Body())
	if err != nil {
		return "", fmt.Errorf("%s: %w", resultsUrl, err)
	}
	span.SetAttributes(attribute.String("event_id", id))
	slog.DebugContext(ctx, "found event id", "race", raceUrl, "event_id", id)
	return id, nil
}

// Subevent is one dated edition of a race on the competitor results site.
type Subevent struct {
	EventID string `json:"wtc_eventid"`
	Name    string `json:"wtc_name"`
	Date    string `json:"wtc_eventdate_formatted"`
}

const subeventDateLayout = "01/02/2006"

func (s Subevent) Year() (int, error) {
	t, err := time.Parse(subeventDateLayout, s.Date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

type nextData struct {
	Props struct {
		PageProps struct {
			Subevents []Subevent `json:"subevents"`
		} `json:"pageProps"`
	} `json:"props"`
}

func ParseSubevents(body io.Reader) ([]Subevent, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}
	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return nil, ErrNoNextData
	}

	var data nextData
	err = json.Unmarshal([]byte(script.Text()), &data)
	if err != nil {
		return nil, fmt.Errorf("decode __NEXT_DATA__: %w", err)
	}
	return data.Props.PageProps.Subevents, nil
}

// FilterYears keeps the subevents held in one of years, an empty list keeps
// everything. Subevents with an unreadable date are dropped when filtering.
func FilterYears(ctx context.Context, subevents []Subevent, years []int) []Subevent {
	if len(years) == 0 {
		return subevents
	}
	var out []Subevent
	for _, s := range subevents {
		year, err := s.Year()
		if err != nil {
			slog.WarnContext(ctx, "bad subevent date", "subevent", s.Name, "date", s.Date, "err", err)
			continue
		}
		for _, y := range years {
			if y == year {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func (c *Client) GetSubevents(ctx context.Context, eventID string, years []int) ([]Subevent, error) {
	ctx, span := tracer.Start(ctx, "GetSubevents")
	defer span.End()

	res, err := c.get(ctx, c.eventsUrl+"/"+eventID, nil)
	if err != nil {
		return nil, err
	}
	subevents, err := ParseSubevents(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}
	subevents = FilterYears(ctx, subevents, years)
	span.SetAttributes(attribute.Int("subevents", len(subevents)))
	return subevents, nil
}
