package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldChart = `{"chart":{"result":[{"meta":{"symbol":"GC=F","currency":"USD"},
"timestamp":[1704153600,1704240000,1704326400,1704369600],
"indicators":{"quote":[{"close":[1900.0,null,1950.0,1960.5],"volume":[800,null,1000,1200]}]}}],"error":null}}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	c := New(
		WithBaseURL(srv.URL),
		WithRateLimit(1000),
		WithClock(func() time.Time { return now }),
	)
	return c, srv
}

func TestFetchParsesBars(t *testing.T) {
	var gotPath, gotInterval, gotPeriod1 string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		gotPeriod1 = r.URL.Query().Get("period1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(goldChart))
	})

	ts, err := c.Fetch(context.Background(), "GC=F", 30)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/GC=F", gotPath)
	assert.Equal(t, "1d", gotInterval)
	assert.Equal(t, "1701820800", gotPeriod1) // 2023-12-06, 30 days before the clock

	// null close dropped, two rows on 2024-01-04 collapse to the later one
	require.Equal(t, 2, ts.Len())
	assert.Equal(t, 1900.0, ts.Bars[0].Close)
	assert.Equal(t, 1960.5, ts.Bars[1].Close)
	require.NotNil(t, ts.Bars[1].Volume)
	assert.EqualValues(t, 1200, *ts.Bars[1].Volume)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), ts.Bars[1].Date)
}

func TestFetchUnknownSymbol404(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	_, err := c.Fetch(context.Background(), "NOPE", 30)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestFetchChartError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"invalid range"}}}`))
	})
	_, err := c.Fetch(context.Background(), "GC=F", 30)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestFetchEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{"close":[],"volume":[]}]}}],"error":null}}`))
	})
	_, err := c.Fetch(context.Background(), "TTF=F", 30)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := c.Fetch(context.Background(), "GC=F", 30)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.NotErrorIs(t, err, ErrUnknownSymbol)
}

func TestFetchEmptySymbol(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Fetch(context.Background(), "", 30)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}
