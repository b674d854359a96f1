package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
	pkgch "MarketSnap/pkg/clickhouse"
	applogger "MarketSnap/pkg/logger"
)

// Section labels stored in the rows table.
const (
	sectionCommodities = "commodities"
	sectionFX          = "fx"
	sectionCompliance  = "compliance"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CHSnapshotStore implements SnapshotStore backed by ClickHouse.
type CHSnapshotStore struct {
	db       execer
	closer   func() error
	snapshot string
	rows     string
	l        *applogger.Logger
}

var _ domrepo.SnapshotStore = (*CHSnapshotStore)(nil)

func NewCHSnapshotStore(ch *pkgch.Client, database string, l *applogger.Logger) *CHSnapshotStore {
	s := newCHSnapshotStore(ch.DB(), database, l)
	s.closer = ch.Close
	return s
}

func newCHSnapshotStore(db execer, database string, l *applogger.Logger) *CHSnapshotStore {
	prefix := ""
	if database != "" {
		prefix = database + "."
	}
	return &CHSnapshotStore{
		db:       db,
		snapshot: prefix + "snapshots",
		rows:     prefix + "snapshot_rows",
		l:        l,
	}
}

// SchemaStatements returns the idempotent DDL for the snapshot tables.
func (s *CHSnapshotStore) SchemaStatements() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id String,
            generated_at DateTime64(3, 'UTC'),
            window_days UInt16,
            currency LowCardinality(String),
            file_name String,
            pages UInt16
        ) ENGINE = ReplacingMergeTree
        ORDER BY (generated_at, id)`, s.snapshot),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            snapshot_id String,
            generated_at DateTime64(3, 'UTC'),
            section LowCardinality(String),
            asset String,
            unit LowCardinality(String),
            currency LowCardinality(String),
            price Nullable(Float64),
            change_pct Nullable(Float64),
            volume Nullable(Int64),
            converted_price Nullable(Float64),
            note String
        ) ENGINE = MergeTree
        ORDER BY (section, asset, generated_at)`, s.rows),
	}
}

// StoreSnapshot writes the snapshot header and one row per summarized asset.
func (s *CHSnapshotStore) StoreSnapshot(ctx context.Context, ev *models.SnapshotEvent) error {
	if ev == nil || ev.ID == "" {
		return fmt.Errorf("store snapshot: missing id")
	}
	start := time.Now()

	q := fmt.Sprintf("INSERT INTO %s (id, generated_at, window_days, currency, file_name, pages) VALUES (?, ?, ?, ?, ?, ?)", s.snapshot)
	if _, err := s.db.ExecContext(ctx, q, ev.ID, ev.GeneratedAt, ev.Window, string(ev.Currency), ev.FileName, ev.Pages); err != nil {
		s.logError("insert snapshot", ev.ID, err)
		return fmt.Errorf("insert snapshot: %w", err)
	}

	values, args := snapshotRows(ev)
	if len(values) == 0 {
		return nil
	}
	q = fmt.Sprintf("INSERT INTO %s (snapshot_id, generated_at, section, asset, unit, currency, price, change_pct, volume, converted_price, note) VALUES %s",
		s.rows, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logError("insert snapshot rows", ev.ID, err)
		return fmt.Errorf("insert snapshot rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("snapshot stored",
			applogger.String("id", ev.ID),
			applogger.Int("rows", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func snapshotRows(ev *models.SnapshotEvent) ([]string, []interface{}) {
	const placeholder = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	n := len(ev.Commodities) + len(ev.FX) + len(ev.Compliance)
	values := make([]string, 0, n)
	args := make([]interface{}, 0, n*11)

	// summary rows carry only their quote unit: cents, a foreign currency
	// or an FX rate
	addSummary := func(section string, rows []models.SummaryRow) {
		for _, r := range rows {
			values = append(values, placeholder)
			args = append(args, ev.ID, ev.GeneratedAt, section, r.AssetName, r.Unit, "",
				nullFloat(r.LastPrice), nullFloat(r.ChangePct), nullInt(r.Volume), sql.NullFloat64{}, "")
		}
	}
	addSummary(sectionCommodities, ev.Commodities)
	addSummary(sectionFX, ev.FX)

	for _, r := range ev.Compliance {
		note := r.SourceNote
		if r.ConversionNote != "" {
			note += "; " + r.ConversionNote
		}
		values = append(values, placeholder)
		args = append(args, ev.ID, ev.GeneratedAt, sectionCompliance, r.Name, r.Unit, r.Currency,
			nullFloat(r.Price), sql.NullFloat64{}, sql.NullInt64{}, nullFloat(r.ConvertedPrice), note)
	}
	return values, args
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func (s *CHSnapshotStore) logError(op, id string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+op+" error",
		applogger.String("id", id),
		applogger.Error(err),
	)
}

// Close releases the underlying connection pool when the store owns it.
func (s *CHSnapshotStore) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
