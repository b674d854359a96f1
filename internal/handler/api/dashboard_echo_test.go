package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/service/cache"
	"MarketSnap/internal/service/feeds"
	"MarketSnap/internal/service/ratelimit"
	"MarketSnap/internal/usecase"
	"MarketSnap/pkg/logger"
	"MarketSnap/pkg/metrics"
)

type staticSource map[string][]float64

func (s staticSource) Fetch(_ context.Context, symbol string, _ int) (*models.TimeSeries, error) {
	closes, ok := s[symbol]
	if !ok {
		return nil, fmt.Errorf("no route to %s", symbol)
	}
	ts := &models.TimeSeries{Symbol: symbol}
	for i, c := range closes {
		ts.Bars = append(ts.Bars, models.Bar{Date: time.Date(2024, 2, 1+i, 0, 0, 0, 0, time.UTC), Close: c})
	}
	return ts, nil
}

func newTestEcho(t *testing.T, limiter *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	return newTestEchoWithConfig(t, limiter, usecase.DashboardConfig{})
}

func newTestEchoWithConfig(t *testing.T, limiter *ratelimit.Limiter, cfg usecase.DashboardConfig) *echo.Echo {
	t.Helper()
	log := logger.Nop()
	m := metrics.Nop{}
	src := staticSource{"GC=F": {1900, 1950}, "EURUSD=X": {1.1, 1.2}, "CO2.L": {60, 66}}

	cat := &catalog.Catalog{
		Commodities: []models.Instrument{{Name: "Gold", FetchID: "GC=F"}, {Name: "Lithium"}},
		FX:          []models.Instrument{{Name: "EUR/USD", FetchID: "EURUSD=X"}},
		Compliance: []models.ComplianceInstrument{
			{Instrument: models.Instrument{Name: "EU ETS", FetchID: "CO2.L", Unit: "€/t"}, Currency: "EUR"},
			{Instrument: models.Instrument{Name: "Korea ETS", Unit: "KRW/t"}, Currency: "KRW"},
		},
		Pairs: map[string]catalog.PairRef{"EUR": {Pair: "EUR/USD"}},
	}
	cat.Normalize()
	require.NoError(t, cat.Validate())

	fetcher := usecase.NewSourceFetcher(src, usecase.FetcherConfig{Timeout: time.Second}, log, m)
	resolver := usecase.NewComplianceResolver(feeds.NewSet(feeds.NewTicker(src, time.Second)), 2)
	agg := usecase.NewAggregator(cat, fetcher, resolver, cache.NewAggregationCache(log, m))
	uc := usecase.NewDashboardUseCase(cat, agg, usecase.NewConverter(cat, m), nil, nil, cfg, log, m)

	e := echo.New()
	NewDashboardEchoHandler(log, uc, limiter).RegisterRoutes(e)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestTablesDefaults(t *testing.T) {
	e := newTestEcho(t, nil)

	rec, env := get(t, e, "/api/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	var tables models.Tables
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	assert.Equal(t, 30, tables.Window)
	assert.Equal(t, models.CurrencyUSD, tables.Currency)
	require.Len(t, tables.Commodities, 2)
	assert.Equal(t, 2.63, *tables.Commodities[0].ChangePct)
	assert.Nil(t, tables.Commodities[1].LastPrice)
	require.Len(t, tables.Compliance, 2)
	assert.Equal(t, 79.2, *tables.Compliance[0].ConvertedPrice)
	assert.Equal(t, "conversion not available - add USD/KRW pair", tables.Compliance[1].ConversionNote)
}

func TestTablesConfiguredDefaultDays(t *testing.T) {
	e := newTestEchoWithConfig(t, nil, usecase.DashboardConfig{DefaultDays: 14})

	_, env := get(t, e, "/api/tables")
	var tables models.Tables
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	assert.Equal(t, 14, tables.Window)

	_, env = get(t, e, "/api/tables?days=60")
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	assert.Equal(t, 60, tables.Window)
}

func TestTablesToggles(t *testing.T) {
	e := newTestEcho(t, nil)

	rec, env := get(t, e, "/api/tables?days=7&currency=local&commodities=false&fx=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.NotContains(t, raw, "commodities")
	assert.NotContains(t, raw, "fx")
	assert.Contains(t, raw, "compliance")
	assert.JSONEq(t, `"local"`, string(raw["currency"]))
}

func TestTablesValidation(t *testing.T) {
	e := newTestEcho(t, nil)
	for _, q := range []string{"days=3", "days=365", "currency=gbp", "fx=maybe"} {
		rec, env := get(t, e, "/api/tables?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, http.StatusBadRequest, env.Status, q)
	}
}

func TestSeries(t *testing.T) {
	e := newTestEcho(t, nil)

	rec, env := get(t, e, "/api/series/fx/EUR%2FUSD?days=30")
	require.Equal(t, http.StatusOK, rec.Code)
	var ns models.NamedSeries
	require.NoError(t, json.Unmarshal(env.Data, &ns))
	assert.Equal(t, "EUR/USD", ns.Name)
	assert.Equal(t, 2, ns.Result.Series.Len())

	rec, env = get(t, e, "/api/series/commodities/Lithium")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &ns))
	assert.Nil(t, ns.Result.Series)
	assert.Equal(t, models.FailureNotConfigured, ns.Result.Failure.Kind)

	rec, _ = get(t, e, "/api/series/commodities/Unobtainium")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, e, "/api/series/equities/Gold")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	e := newTestEcho(t, nil)

	rec, env := get(t, e, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	var view usecase.CatalogView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, []string{"KRW"}, view.Unresolved)
	assert.Len(t, view.Compliance, 2)
}

func TestReportDownload(t *testing.T) {
	e := newTestEcho(t, nil)

	rec, _ := get(t, e, "/api/report?days=14&currency=usd")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Regexp(t, `^attachment; filename="market_snapshot_\d{8}_\d{4}UTC\.pdf"$`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestReportRateLimited(t *testing.T) {
	e := newTestEcho(t, ratelimit.New(1, 0))

	rec, _ := get(t, e, "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := get(t, e, "/api/report")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, http.StatusTooManyRequests, env.Status)
}
