// Package yahoo implements repository.MarketSource on the Yahoo Finance
// v8 chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/domain/repository"
	xhttp "MarketSnap/pkg/http"
	"MarketSnap/pkg/util"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0 (compatible; MarketSnap/1.0)"
	DefaultRateLimit = 5
)

// Sentinels shared with other market sources.
var (
	ErrNoData        = repository.ErrNoData
	ErrUnknownSymbol = repository.ErrUnknownSymbol
)

var _ repository.MarketSource = (*Client)(nil)

// Client fetches daily bars from the chart endpoint.
type Client struct {
	http      *xhttp.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	now       func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithClock sets the time source used to compute the window.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Yahoo chart client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Fetch returns daily closes for symbol covering the last days.
func (c *Client) Fetch(ctx context.Context, symbol string, days int) (*models.TimeSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrUnknownSymbol)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	now := c.now()
	var resp chartResponse
	err := c.http.GetJSON(ctx, &xhttp.Request{
		URL: c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
			"Accept":     "application/json",
		},
		Query: url.Values{
			"period1":  {strconv.FormatInt(util.WindowStart(now, days).Unix(), 10)},
			"period2":  {strconv.FormatInt(now.Unix(), 10)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnknownSymbol, symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	series := parseBars(symbol, resp.Chart.Result[0])
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return series, nil
}

// parseBars drops rows without a close and keeps the latest row per day.
func parseBars(symbol string, r chartResult) *models.TimeSeries {
	ts := &models.TimeSeries{Symbol: symbol}
	if len(r.Indicators.Quote) == 0 {
		return ts
	}
	q := r.Indicators.Quote[0]
	for i, stamp := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		bar := models.Bar{Date: util.DayUTC(stamp), Close: *q.Close[i]}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = models.Int64(*q.Volume[i])
		}
		if n := len(ts.Bars); n > 0 && util.SameDay(ts.Bars[n-1].Date, bar.Date) {
			ts.Bars[n-1] = bar
			continue
		}
		ts.Bars = append(ts.Bars, bar)
	}
	return ts
}
