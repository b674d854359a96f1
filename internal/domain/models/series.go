package models

import "time"

// Bar is one daily observation.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume *int64    `json:"volume,omitempty"`
}

// TimeSeries holds bars in ascending date order.
type TimeSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar.
func (s *TimeSeries) Last() (Bar, bool) {
	if s.Len() == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Previous returns the second most recent bar.
func (s *TimeSeries) Previous() (Bar, bool) {
	if s.Len() < 2 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-2], true
}

// FailureKind classifies why an instrument has no data.
type FailureKind string

const (
	FailureNotConfigured FailureKind = "not_configured"
	FailureNetwork       FailureKind = "network"
	FailureEmpty         FailureKind = "empty"
	FailureUnknownSymbol FailureKind = "unknown_symbol"
	FailureTimeout       FailureKind = "timeout"
)

// FetchFailure keeps the reason an instrument fetch produced no data.
type FetchFailure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// FetchResult is either a series or a failure, never both.
type FetchResult struct {
	Series  *TimeSeries   `json:"series,omitempty"`
	Failure *FetchFailure `json:"failure,omitempty"`
}

// Ok wraps a fetched series.
func Ok(s *TimeSeries) FetchResult { return FetchResult{Series: s} }

// Failed builds a no-data result.
func Failed(kind FailureKind, reason string) FetchResult {
	return FetchResult{Failure: &FetchFailure{Kind: kind, Reason: reason}}
}

// IsOk reports whether the result carries data.
func (r FetchResult) IsOk() bool { return r.Series != nil && r.Series.Len() > 0 }

// NamedSeries binds a catalog name to its fetch result.
type NamedSeries struct {
	Name   string      `json:"name"`
	Unit   string      `json:"unit,omitempty"`
	Result FetchResult `json:"result"`
}

// SeriesSet is an ordered name -> result mapping, in catalog order.
type SeriesSet []NamedSeries

// Get returns the result stored under name.
func (s SeriesSet) Get(name string) (FetchResult, bool) {
	for _, ns := range s {
		if ns.Name == name {
			return ns.Result, true
		}
	}
	return FetchResult{}, false
}

// Series returns the series for name, or nil when absent or failed.
func (s SeriesSet) Series(name string) *TimeSeries {
	r, ok := s.Get(name)
	if !ok || !r.IsOk() {
		return nil
	}
	return r.Series
}

// Available counts entries with data.
func (s SeriesSet) Available() int {
	n := 0
	for _, ns := range s {
		if ns.Result.IsOk() {
			n++
		}
	}
	return n
}
