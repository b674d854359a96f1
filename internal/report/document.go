// Package report builds the multi-page daily snapshot document and renders
// it to PDF.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"MarketSnap/internal/domain/models"
	"MarketSnap/pkg/util"
)

const (
	Title           = "Commodities, FX & Compliance Carbon - Daily Snapshot"
	NotesTitle      = "Notes & Data Sources"
	DefaultTrendCap = 6

	TitleCommodities = "Commodities Summary"
	TitleFX          = "FX Summary"
	TitleCompliance  = "Compliance Carbon Markets Summary"

	TrendCommodities = "Commodities Trend"
	TrendFX          = "FX Trend"
	TrendCompliance  = "Compliance Market Trends"
)

var notes = []string{
	"Data sources: Yahoo Finance where available. Markets without a wired feed are shown as placeholders.",
	"Markets with blank prices need a dedicated API or scrape feed configured in the catalog.",
	"USD conversions use the latest daily close of the configured FX pair. Missing pairs are reported, never estimated.",
	"Generated by MarketSnap.",
}

type PageKind string

const (
	PageTitle PageKind = "title"
	PageTable PageKind = "table"
	PageTrend PageKind = "trend"
	PageNotes PageKind = "notes"
)

// Table is a rendered summary table. Missing values are empty strings.
type Table struct {
	Columns []string
	Weights []float64 // relative column widths
	Rows    [][]string
}

// Page is one page of the document.
type Page struct {
	Kind   PageKind
	Title  string
	Lines  []string
	Table  *Table
	Series *models.TimeSeries
}

// Document is the full snapshot, independent of the output format.
type Document struct {
	GeneratedAt time.Time
	Window      int
	Pages       []Page
}

// Input is everything a snapshot is built from.
type Input struct {
	Tables      models.Tables
	Commodities models.SeriesSet
	FX          models.SeriesSet
	Window      int
	GeneratedAt time.Time
	TrendCap    int
}

// Build lays out the document. It is pure: the same input gives the same
// document.
func Build(in Input) Document {
	trendCap := in.TrendCap
	if trendCap <= 0 {
		trendCap = DefaultTrendCap
	}
	at := in.GeneratedAt.UTC()

	doc := Document{GeneratedAt: at, Window: in.Window}
	doc.Pages = append(doc.Pages, Page{
		Kind:  PageTitle,
		Title: Title,
		Lines: []string{
			fmt.Sprintf("Generated: %s (UTC)", util.DisplayStamp(at)),
			fmt.Sprintf("History: last %d days", in.Window),
		},
	})

	doc.Pages = append(doc.Pages,
		Page{Kind: PageTable, Title: TitleCommodities, Table: summaryTable("Asset", in.Tables.Commodities)},
		Page{Kind: PageTable, Title: TitleFX, Table: summaryTable("Pair", in.Tables.FX)},
		Page{Kind: PageTable, Title: TitleCompliance, Table: complianceTable(in.Tables.Compliance)},
	)

	doc.Pages = append(doc.Pages, trendPages(TrendCommodities, in.Commodities, trendCap)...)
	doc.Pages = append(doc.Pages, trendPages(TrendFX, in.FX, trendCap)...)
	doc.Pages = append(doc.Pages, trendPages(TrendCompliance, complianceHistories(in.Tables.Compliance), trendCap)...)

	doc.Pages = append(doc.Pages, Page{Kind: PageNotes, Title: NotesTitle, Lines: notes})
	return doc
}

// FileName is the download name of a snapshot generated at t.
func FileName(t time.Time) string {
	return "market_snapshot_" + util.FileStamp(t) + ".pdf"
}

func trendPages(title string, set models.SeriesSet, limit int) []Page {
	var pages []Page
	for _, ns := range set {
		if len(pages) == limit {
			break
		}
		s := set.Series(ns.Name)
		if s == nil {
			continue
		}
		pages = append(pages, Page{Kind: PageTrend, Title: title + " - " + ns.Name, Series: s})
	}
	return pages
}

func complianceHistories(records []models.ComplianceRecord) models.SeriesSet {
	var set models.SeriesSet
	for _, r := range records {
		if r.HasHistory() {
			set = append(set, models.NamedSeries{Name: r.Name, Result: models.Ok(r.History)})
		}
	}
	return set
}

func summaryTable(label string, rows []models.SummaryRow) *Table {
	t := &Table{
		Columns: []string{label, "Last Price", "Change %", "Volume"},
		Weights: []float64{3, 2, 1.5, 2},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AssetName,
			formatPrice(r.LastPrice),
			formatPct(r.ChangePct),
			formatVolume(r.Volume),
		})
	}
	return t
}

func complianceTable(records []models.ComplianceRecord) *Table {
	t := &Table{
		Columns: []string{"Market", "Unit", "Last Price (local)", "Last Price (USD)", "Source", "Note"},
		Weights: []float64{3, 1.3, 1.7, 1.7, 2.6, 3.7},
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.Name,
			r.Unit,
			formatLocal(r.Price, r.Currency),
			formatUSD(r.ConvertedPrice),
			r.SourceNote,
			r.ConversionNote,
		})
	}
	return t
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	if *v < 10 && *v > -10 {
		return strconv.FormatFloat(*v, 'f', 4, 64)
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatPct(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatVolume(v *int64) string {
	if v == nil {
		return ""
	}
	return groupThousands(strconv.FormatInt(*v, 10))
}

func formatLocal(v *float64, currency string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(formatPrice(v) + " " + currency)
}

// usdPlaces matches the precision converted prices are computed with.
const usdPlaces = 4

// formatUSD renders a converted price with the registry's USD symbol and
// separators, keeping every computed decimal.
func formatUSD(v *float64) string {
	if v == nil {
		return ""
	}
	cur := money.GetCurrency(money.USD)
	s := decimal.NewFromFloat(*v).StringFixed(usdPlaces)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + cur.Grapheme + groupThousands(whole) + cur.Decimal + frac
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
