package ironmancom

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"

	"ironman-results/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// SlotRow is one line of a qualifying events table.
type SlotRow struct {
	Race       string
	Date       string
	Location   string
	WomenSlots int
	MenSlots   int
}

// ParseSlotsTable reads the first table of a qualifying events page, the
// first row is the header. Rows with less than five cells are skipped, slot
// cells that are not plain numbers ("TBD", "-") count as zero.
func ParseSlotsTable(body io.Reader) ([]SlotRow, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []SlotRow
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		// header
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}
		text := func(n int) string {
			return htmlutil.SelectionText(cells.Eq(n))
		}
		rows = append(rows, SlotRow{
			Race:       text(0),
			Date:       text(1),
			Location:   text(2),
			WomenSlots: slotCount(text(3)),
			MenSlots:   slotCount(text(4)),
		})
	})
	return rows, nil
}

func slotCount(s string) int {
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (c *Client) GetQualifyingSlots(ctx context.Context, pageUrl string) ([]SlotRow, error) {
	ctx, span := tracer.Start(ctx, "GetQualifyingSlots")
	defer span.End()

	res, err := c.get(ctx, pageUrl, nil)
	if err != nil {
		return nil, err
	}
	rows, err := ParseSlotsTable(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		slog.WarnContext(ctx, "no slot table found", "url", pageUrl)
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}
