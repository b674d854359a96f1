package models

import "strconv"

// Requests for dashboard HTTP endpoints. Section toggles are strings so an
// omitted toggle can default to "shown".

type TablesRequest struct {
	Days        int    `query:"days" json:"days" default:"30" validate:"gte=7,lte=180"`
	Currency    string `query:"currency" json:"currency" default:"usd" validate:"oneof=local usd"`
	Commodities string `query:"commodities" json:"commodities" default:"true" validate:"boolean"`
	FX          string `query:"fx" json:"fx" default:"true" validate:"boolean"`
	Compliance  string `query:"compliance" json:"compliance" default:"true" validate:"boolean"`
	Refresh     bool   `query:"refresh" json:"refresh"`
}

type SeriesRequest struct {
	Class string `param:"class" validate:"required,oneof=commodities fx compliance"`
	Name  string `param:"name" validate:"required"`
	Days  int    `query:"days" json:"days" default:"30" validate:"gte=7,lte=180"`
}

type ReportRequest struct {
	Days     int    `query:"days" json:"days" default:"30" validate:"gte=7,lte=180"`
	Currency string `query:"currency" json:"currency" default:"usd" validate:"oneof=local usd"`
}

// Options converts the request into pipeline view options.
func (r *TablesRequest) Options() ViewOptions {
	return ViewOptions{
		Days:     r.Days,
		Currency: Currency(r.Currency),
		Sections: Sections{
			Commodities: parseBoolDefault(r.Commodities, true),
			FX:          parseBoolDefault(r.FX, true),
			Compliance:  parseBoolDefault(r.Compliance, true),
		},
		Refresh: r.Refresh,
	}
}

// Options converts the request into pipeline view options.
func (r *ReportRequest) Options() ViewOptions {
	return ViewOptions{Days: r.Days, Currency: Currency(r.Currency), Sections: AllSections()}
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
