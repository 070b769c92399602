package ironmancom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ironman-results/lib/restyutil"
	"ironman-results/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/ironmancom")
var meter = otel.Meter("scrapers/ironmancom")
var resultsFetched, _ = meter.Int64Counter("results_fetched")

type ClientOptions struct {
	// the ironman.com site, race listings and qualifying pages live here
	BaseUrl string
	// competitor labs endpoints that serve the results
	ResultsApi string
	EventsUrl  string

	UserAgent  string
	RetryCount int
	Timeout    time.Duration
	// pause between consecutive requests
	Delay time.Duration

	DisableCloudflareBypass bool
	// when not nil, every http exchange is written here
	Dump restyutil.Output
}

type Client struct {
	http       *resty.Client
	baseUrl    *url.URL
	resultsApi string
	eventsUrl  string
	delay      time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", opts.BaseUrl)
	}

	client := resty.New()
	if !opts.DisableCloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(time.Second * 10).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return res.StatusCode() == http.StatusTooManyRequests ||
				res.StatusCode() >= http.StatusInternalServerError
		})

	telemetry.InstrumentResty(client, "scrapers/ironmancom/http")
	restyutil.DumpExchanges(client, opts.Dump)

	return &Client{
		http:       client,
		baseUrl:    baseUrl,
		resultsApi: opts.ResultsApi,
		eventsUrl:  strings.TrimSuffix(opts.EventsUrl, "/"),
		delay:      opts.Delay,
	}, nil
}

// pause waits out the politeness delay between requests.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) get(ctx context.Context, link string, query url.Values) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return res, fmt.Errorf("GET %s: unexpected status %s", link, res.Status())
	}
	return res, nil
}

// ResolveRaceUrl accepts either a full race url or a path such as
// "races/im703-oregon".
func (c *Client) ResolveRaceUrl(race string) string {
	race = strings.TrimSpace(race)
	if strings.HasPrefix(race, "http://") || strings.HasPrefix(race, "https://") {
		return strings.TrimSuffix(race, "/")
	}
	ref := &url.URL{Path: "/" + strings.Trim(race, "/")}
	return c.baseUrl.ResolveReference(ref).String()
}
