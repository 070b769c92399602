package ironmancom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"ironman-results/lib/ironman"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GetResults fetches the raw result rows of a subevent.
func (c *Client) GetResults(ctx context.Context, subeventID string) ([]ironman.Row, error) {
	ctx, span := tracer.Start(ctx, "GetResults")
	defer span.End()

	res, err := c.get(ctx, c.resultsApi, url.Values{"wtc_eventid": {subeventID}})
	if err != nil {
		return nil, err
	}

	var file ironman.File
	err = json.Unmarshal(res.Body(), &file)
	if err != nil {
		return nil, fmt.Errorf("decode results of %s: %w", subeventID, err)
	}
	rows := file.Rows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("subevent %s: %w", subeventID, ironman.ErrNoResults)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	resultsFetched.Add(ctx, 1, metric.WithAttributes(attribute.String("subevent", subeventID)))
	return rows, nil
}
