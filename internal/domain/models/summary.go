package models

// SummaryRow is the flat per-instrument summary. Nil fields are missing.
// Unit is the quote unit from the catalog, e.g. "USc/bu" or "JPY per USD".
type SummaryRow struct {
	AssetName string   `json:"asset"`
	Unit      string   `json:"unit,omitempty"`
	LastPrice *float64 `json:"last_price"`
	ChangePct *float64 `json:"change_pct"`
	Volume    *int64   `json:"volume"`
}

// ConversionStatus records the outcome of a USD conversion attempt.
type ConversionStatus string

const (
	ConversionNotRequested ConversionStatus = "not_requested"
	ConversionNoPrice      ConversionStatus = "no_price"
	ConversionConverted    ConversionStatus = "converted"
	ConversionIdentity     ConversionStatus = "identity"
	ConversionMissingPair  ConversionStatus = "missing_pair"
	ConversionUnwired      ConversionStatus = "unwired"
)

// Succeeded reports whether the status carries a converted price.
func (s ConversionStatus) Succeeded() bool {
	return s == ConversionConverted || s == ConversionIdentity
}

// ComplianceRecord is one compliance-carbon market row.
type ComplianceRecord struct {
	Name           string           `json:"market"`
	Unit           string           `json:"unit"`
	Currency       string           `json:"currency"`
	Price          *float64         `json:"price"`
	History        *TimeSeries      `json:"history,omitempty"`
	SourceNote     string           `json:"source"`
	ConvertedPrice *float64         `json:"converted_price"`
	Conversion     ConversionStatus `json:"conversion"`
	ConversionNote string           `json:"note"`
}

// HasHistory reports whether the record carries a non-empty series.
func (r ComplianceRecord) HasHistory() bool { return r.History.Len() > 0 }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }
