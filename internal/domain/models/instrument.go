package models

// AssetClass groups instruments into the three snapshot sections.
type AssetClass string

const (
	ClassCommodities AssetClass = "commodities"
	ClassFX          AssetClass = "fx"
	ClassCompliance  AssetClass = "compliance"
)

// AllClasses returns asset classes in display order.
func AllClasses() []AssetClass {
	return []AssetClass{ClassCommodities, ClassFX, ClassCompliance}
}

// IsValid reports whether c names a known asset class.
func (c AssetClass) IsValid() bool {
	switch c {
	case ClassCommodities, ClassFX, ClassCompliance:
		return true
	default:
		return false
	}
}

// Instrument is a catalog entry. An empty FetchID means no upstream ticker.
type Instrument struct {
	Name    string `yaml:"name" json:"name"`
	FetchID string `yaml:"fetch_id" json:"fetch_id,omitempty"`
	Unit    string `yaml:"unit" json:"unit,omitempty"`
}

// HasFetchID reports whether the instrument can be fetched upstream.
func (i Instrument) HasFetchID() bool { return i.FetchID != "" }

// FeedKind selects the strategy used to price a compliance market.
type FeedKind string

const (
	FeedNone   FeedKind = "none"
	FeedTicker FeedKind = "ticker"
	FeedScrape FeedKind = "scrape"
)

// FeedSpec configures the compliance feed strategy of one market.
type FeedSpec struct {
	Kind     FeedKind `yaml:"kind" json:"kind"`
	URL      string   `yaml:"url" json:"url,omitempty"`
	Selector string   `yaml:"selector" json:"selector,omitempty"`
}

// ComplianceInstrument is a compliance-carbon market with an explicit currency.
type ComplianceInstrument struct {
	Instrument `yaml:",inline"`
	Currency   string   `yaml:"currency" json:"currency"`
	Feed       FeedSpec `yaml:"feed" json:"feed"`
}
