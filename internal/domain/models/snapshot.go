package models

import "time"

// Bundle is the result of one fetch-all for a lookback window.
type Bundle struct {
	Window      int                `json:"window"`
	FetchedAt   time.Time          `json:"fetched_at"`
	Commodities SeriesSet          `json:"commodities"`
	FX          SeriesSet          `json:"fx"`
	Compliance  []ComplianceRecord `json:"compliance"`
}

// Currency is the display currency for compliance prices.
type Currency string

const (
	CurrencyLocal Currency = "local"
	CurrencyUSD   Currency = "usd"
)

// Sections toggles which asset classes are shown.
type Sections struct {
	Commodities bool `json:"commodities"`
	FX          bool `json:"fx"`
	Compliance  bool `json:"compliance"`
}

// AllSections enables every section.
func AllSections() Sections { return Sections{Commodities: true, FX: true, Compliance: true} }

// ViewOptions are the user selections driving one pipeline run.
type ViewOptions struct {
	Days     int
	Currency Currency
	Sections Sections
	Refresh  bool
}

// Tables are the summary tables computed for one view.
// A nil slice means the section is hidden.
type Tables struct {
	Window      int                `json:"window"`
	FetchedAt   time.Time          `json:"fetched_at"`
	Currency    Currency           `json:"currency"`
	Commodities []SummaryRow       `json:"commodities,omitempty"`
	FX          []SummaryRow       `json:"fx,omitempty"`
	Compliance  []ComplianceRecord `json:"compliance,omitempty"`
}

// SnapshotEvent describes a generated report, for storage and notification.
type SnapshotEvent struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Window      int                `json:"window"`
	Currency    Currency           `json:"currency"`
	FileName    string             `json:"file_name"`
	Pages       int                `json:"pages"`
	Commodities []SummaryRow       `json:"commodities"`
	FX          []SummaryRow       `json:"fx"`
	Compliance  []ComplianceRecord `json:"compliance"`
}
