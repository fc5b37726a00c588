package encar

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"encar-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/encar")

const DefaultBaseUrl = "https://fem.encar.com"

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 13_0) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/107.0.0.0 Safari/537.36"

const defaultTimeout = time.Second * 15

// retry policy: 3 total attempts, fixed wait between them
const retryAttempts = 3
const retryWait = time.Millisecond * 300

// DetailURL returns the canonical detail page address for a vehicle.
// This is both the fetch target and the value of the output url and
// card_url fields.
func DetailURL(vehicleId string) string {
	return fmt.Sprintf("%s/cars/detail/%s", DefaultBaseUrl, vehicleId)
}

// FetchError reports a failure to retrieve a detail page. It is kept
// distinct from ParseError so callers can tell "could not reach the
// source" apart from "source structure changed".
type FetchError struct {
	VehicleId  string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch vehicle %s: %s", e.VehicleId, e.Err)
	}
	return fmt.Sprintf("fetch vehicle %s: status %d", e.VehicleId, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput routes request/response transcripts of
// clients created afterwards into the given sink.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to a desktop Chrome user agent
	UserAgent string
	// defaults to 15s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept-language", "en-US,en;q=0.9,ko;q=0.8")
	client.SetTimeout(timeout)

	client.SetRetryCount(retryAttempts - 1)
	client.SetRetryWaitTime(retryWait)
	client.SetRetryMaxWaitTime(retryWait)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return transientStatus(res.StatusCode())
	})

	restyutil.InstrumentClient(client, "scrapers/encar/http", instrumentOutput)

	return &Client{http: client}
}

func transientStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// FetchDetail downloads the detail page for a vehicle. Transient
// failures (transport errors, 429, 5xx) are retried up to 3 total
// attempts; everything else fails immediately.
func (c *Client) FetchDetail(ctx context.Context, vehicleId string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/cars/detail/" + url.PathEscape(vehicleId))
	if err != nil {
		return "", &FetchError{VehicleId: vehicleId, Err: err}
	}
	if res.IsError() {
		return "", &FetchError{VehicleId: vehicleId, StatusCode: res.StatusCode()}
	}
	return res.String(), nil
}
