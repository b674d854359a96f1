package usecase

import (
	"github.com/shopspring/decimal"

	"MarketSnap/internal/domain/models"
)

// BuildSummary turns a series set into one row per entry, in the same order.
func BuildSummary(set models.SeriesSet) []models.SummaryRow {
	rows := make([]models.SummaryRow, len(set))
	for i, ns := range set {
		rows[i] = SummarizeSeries(ns.Name, ns.Result.Series)
		rows[i].Unit = ns.Unit
	}
	return rows
}

// SummarizeSeries computes last price, daily change and volume. Absent or
// empty series give a row with every numeric field missing.
func SummarizeSeries(name string, s *models.TimeSeries) models.SummaryRow {
	row := models.SummaryRow{AssetName: name}
	last, ok := s.Last()
	if !ok {
		return row
	}
	prev, ok := s.Previous()
	if !ok {
		prev = last
	}

	row.LastPrice = models.Float(last.Close)
	row.ChangePct = models.Float(ChangePct(prev.Close, last.Close))
	if last.Volume != nil {
		row.Volume = models.Int64(*last.Volume)
	}
	return row
}

// ChangePct is the percent move from prev to last, rounded half away from
// zero to 2 places. A zero prev yields 0.
func ChangePct(prev, last float64) float64 {
	p := decimal.NewFromFloat(prev)
	if p.IsZero() {
		return 0
	}
	pct := decimal.NewFromFloat(last).Sub(p).Div(p).Mul(decimal.NewFromInt(100))
	return pct.Round(2).InexactFloat64()
}
