package feeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSnap/internal/domain/models"
	xhttp "MarketSnap/pkg/http"
)

type stubSource struct {
	series *models.TimeSeries
	err    error
	calls  int
}

func (s *stubSource) Fetch(_ context.Context, symbol string, _ int) (*models.TimeSeries, error) {
	s.calls++
	return s.series, s.err
}

func market(name, fetchID string, kind models.FeedKind) models.ComplianceInstrument {
	return models.ComplianceInstrument{
		Instrument: models.Instrument{Name: name, FetchID: fetchID, Unit: "€/t"},
		Currency:   "EUR",
		Feed:       models.FeedSpec{Kind: kind},
	}
}

func TestUnavailable(t *testing.T) {
	rec := Unavailable{}.Resolve(context.Background(), market("China ETS", "", models.FeedNone), 30)

	assert.Equal(t, "China ETS", rec.Name)
	assert.Equal(t, "€/t", rec.Unit)
	assert.Equal(t, "EUR", rec.Currency)
	assert.Nil(t, rec.Price)
	assert.Nil(t, rec.History)
	assert.Equal(t, NotePlaceholder, rec.SourceNote)
}

func TestTickerSuccess(t *testing.T) {
	src := &stubSource{series: &models.TimeSeries{Symbol: "CO2.L", Bars: []models.Bar{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 64.1},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 65.3},
	}}}
	rec := NewTicker(src, time.Second).Resolve(context.Background(), market("EU ETS", "CO2.L", models.FeedTicker), 30)

	require.NotNil(t, rec.Price)
	assert.Equal(t, 65.3, *rec.Price)
	assert.True(t, rec.HasHistory())
	assert.Equal(t, "Ticker CO2.L", rec.SourceNote)
}

func TestTickerEmpty(t *testing.T) {
	src := &stubSource{series: &models.TimeSeries{Symbol: "KRBN"}}
	rec := NewTicker(src, 0).Resolve(context.Background(), market("KRBN", "KRBN", models.FeedTicker), 30)

	assert.Nil(t, rec.Price)
	assert.False(t, rec.HasHistory())
	assert.Equal(t, "Ticker KRBN returned empty", rec.SourceNote)
}

func TestTickerError(t *testing.T) {
	src := &stubSource{err: errors.New("connection reset")}
	rec := NewTicker(src, 0).Resolve(context.Background(), market("KRBN", "KRBN", models.FeedTicker), 30)

	assert.Nil(t, rec.Price)
	assert.Equal(t, "Ticker error: connection reset", rec.SourceNote)
}

func TestTickerWithoutFetchIDIsPlaceholder(t *testing.T) {
	src := &stubSource{}
	rec := NewTicker(src, 0).Resolve(context.Background(), market("RGGI", "", models.FeedTicker), 30)

	assert.Equal(t, 0, src.calls)
	assert.Equal(t, NotePlaceholder, rec.SourceNote)
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="quote"><span class="last">€ 68,42</span></div></body></html>`))
	}))
	defer srv.Close()

	inst := market("EU ETS", "", models.FeedScrape)
	inst.Feed.URL = srv.URL + "/eua"
	inst.Feed.Selector = ".quote .last"

	rec := NewScrape(xhttp.NewClient(), "test").Resolve(context.Background(), inst, 30)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 68.42, *rec.Price, 1e-9)
	assert.Nil(t, rec.History)
	assert.Contains(t, rec.SourceNote, "Scraped 127.0.0.1")
}

func TestScrapeFailuresDegrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<html><body><p>no quote today</p></body></html>`))
	}))
	defer srv.Close()

	scrape := NewScrape(xhttp.NewClient(), "test")
	for _, tc := range []struct {
		name, path, selector, note string
	}{
		{"status", "/down", ".last", "unexpected status 503"},
		{"no match", "/page", ".last", "matched nothing"},
		{"not a number", "/page", "p", "no price in page"},
		{"missing selector", "/page", "", "url and selector required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			inst := market("EU ETS", "", models.FeedScrape)
			inst.Feed.URL = srv.URL + tc.path
			inst.Feed.Selector = tc.selector

			rec := scrape.Resolve(context.Background(), inst, 30)
			assert.Nil(t, rec.Price)
			assert.Contains(t, rec.SourceNote, "Scrape error:")
			assert.Contains(t, rec.SourceNote, tc.note)
		})
	}
}

func TestParsePrice(t *testing.T) {
	for in, want := range map[string]float64{
		"€ 68,42":   68.42,
		"$1,234.50": 1234.5,
		"1,234":     1234,
		" 12.1 ":    12.1,
		"-0.5%":     -0.5,
	} {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, err := ParsePrice("n/a")
	assert.Error(t, err)
}

func TestSetPicksFeedByKind(t *testing.T) {
	ticker := NewTicker(&stubSource{}, 0)
	set := NewSet(ticker, Unavailable{})

	assert.Same(t, ticker, set.For(market("a", "X", models.FeedTicker)))
	assert.Equal(t, Unavailable{}, set.For(market("b", "", models.FeedNone)))
	// no scrape feed registered
	assert.Equal(t, Unavailable{}, set.For(market("c", "", models.FeedScrape)))
}
