package restyutil

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DumpExchanges writes every request/response pair the client makes to
// output, one entry per exchange. A nil output is a no-op.
func DumpExchanges(client *resty.Client, output Output) {
	if output == nil {
		return
	}

	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&counter, 1)
		host := ""
		if res.RawResponse != nil && res.RawResponse.Request != nil {
			host = res.RawResponse.Request.URL.Host
		}
		id := fmt.Sprintf(
			"%04d-%s-%s.txt",
			n, res.Request.Method, unsafeChars.ReplaceAllString(host, "_"),
		)
		output.Write(id, formatExchange(res))
		slog.DebugContext(
			res.Request.Context(), "dumped http exchange",
			"id", id,
			"url", res.Request.URL,
			"status", res.StatusCode(),
		)
		return nil
	})
}
