package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSnap/internal/domain/models"
)

type execCall struct {
	query string
	args  []interface{}
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return driverResult(1), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func sampleEvent() *models.SnapshotEvent {
	return &models.SnapshotEvent{
		ID:          "2b1c",
		GeneratedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		Window:      30,
		Currency:    models.CurrencyUSD,
		FileName:    "market_snapshot_20240105_1200.pdf",
		Pages:       6,
		Commodities: []models.SummaryRow{
			{AssetName: "Gold", Unit: "US$/oz", LastPrice: models.Float(2050), ChangePct: models.Float(0.5), Volume: models.Int64(100)},
			{AssetName: "Silver"},
		},
		FX: []models.SummaryRow{{AssetName: "USD/JPY", Unit: "JPY per USD", LastPrice: models.Float(151.3)}},
		Compliance: []models.ComplianceRecord{{
			Name:           "EU ETS",
			Unit:           "€/t",
			Currency:       "EUR",
			Price:          models.Float(66),
			History:        &models.TimeSeries{Bars: []models.Bar{{Close: 66}}},
			SourceNote:     "Ticker ETS",
			ConvertedPrice: models.Float(79.2),
			Conversion:     models.ConversionConverted,
			ConversionNote: "EUR/USD",
		}},
	}
}

func TestCHSnapshotStoreInsertsHeaderAndRows(t *testing.T) {
	db := &fakeExecer{}
	s := newCHSnapshotStore(db, "marketsnap", nil)

	require.NoError(t, s.StoreSnapshot(context.Background(), sampleEvent()))
	require.Len(t, db.calls, 2)

	header := db.calls[0]
	assert.Contains(t, header.query, "INSERT INTO marketsnap.snapshots")
	assert.Equal(t, "2b1c", header.args[0])
	assert.Equal(t, "usd", header.args[3])

	rows := db.calls[1]
	assert.Contains(t, rows.query, "INSERT INTO marketsnap.snapshot_rows")
	assert.Equal(t, 4, strings.Count(rows.query, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"))
	require.Len(t, rows.args, 44)

	gold := rows.args[0:11]
	assert.Equal(t, "US$/oz", gold[4])
	assert.Equal(t, "", gold[5])

	// Silver has no data and is stored with NULLs.
	silver := rows.args[11:22]
	assert.Equal(t, "Silver", silver[3])
	assert.Equal(t, sql.NullFloat64{}, silver[6])
	assert.Equal(t, sql.NullInt64{}, silver[8])

	fx := rows.args[22:33]
	assert.Equal(t, "fx", fx[2])
	assert.Equal(t, "USD/JPY", fx[3])
	assert.Equal(t, "JPY per USD", fx[4])
	assert.Equal(t, "", fx[5], "a USD/xxx rate is not a USD price")
	assert.Equal(t, sql.NullFloat64{Float64: 151.3, Valid: true}, fx[6])

	ets := rows.args[33:44]
	assert.Equal(t, "compliance", ets[2])
	assert.Equal(t, "€/t", ets[4])
	assert.Equal(t, "EUR", ets[5])
	assert.Equal(t, sql.NullFloat64{Float64: 79.2, Valid: true}, ets[9])
	assert.Equal(t, "Ticker ETS; EUR/USD", ets[10])
}

func TestCHSnapshotStoreErrors(t *testing.T) {
	s := newCHSnapshotStore(&fakeExecer{}, "", nil)
	assert.Error(t, s.StoreSnapshot(context.Background(), &models.SnapshotEvent{}))

	boom := errors.New("connection reset")
	s = newCHSnapshotStore(&fakeExecer{err: boom}, "", nil)
	err := s.StoreSnapshot(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
}

func TestCHSnapshotStoreSkipsEmptyRows(t *testing.T) {
	db := &fakeExecer{}
	s := newCHSnapshotStore(db, "", nil)

	ev := &models.SnapshotEvent{ID: "x", Currency: models.CurrencyLocal}
	require.NoError(t, s.StoreSnapshot(context.Background(), ev))
	assert.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "INSERT INTO snapshots ")
}

func TestSchemaStatementsUseDatabase(t *testing.T) {
	s := newCHSnapshotStore(&fakeExecer{}, "ms", nil)
	stmts := s.SchemaStatements()
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "ms.snapshots")
	assert.Contains(t, stmts[1], "ms.snapshot_rows")
}

type fakeProducer struct {
	key   []byte
	value interface{}
	err   error
}

func (p *fakeProducer) Publish(_ context.Context, key []byte, value interface{}) error {
	p.key, p.value = key, value
	return p.err
}

func (p *fakeProducer) Close() error { return nil }

func TestKafkaSnapshotPublisherStripsHistory(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaSnapshotPublisher{producer: fp}
	ev := sampleEvent()

	require.NoError(t, p.PublishSnapshot(context.Background(), ev))
	assert.Equal(t, []byte("2b1c"), fp.key)

	msg, ok := fp.value.(*models.SnapshotEvent)
	require.True(t, ok)
	assert.Nil(t, msg.Compliance[0].History)
	assert.NotNil(t, ev.Compliance[0].History, "caller's event is untouched")
	assert.Equal(t, 79.2, *msg.Compliance[0].ConvertedPrice)
}

func TestNoopImplementations(t *testing.T) {
	assert.NoError(t, NoopSnapshotStore{}.StoreSnapshot(context.Background(), sampleEvent()))
	assert.NoError(t, NoopSnapshotPublisher{}.PublishSnapshot(context.Background(), sampleEvent()))
	assert.NoError(t, NoopSnapshotStore{}.Close())
	assert.NoError(t, NoopSnapshotPublisher{}.Close())
}
