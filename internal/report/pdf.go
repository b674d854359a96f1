package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 12.0
	fontFamily = "Helvetica"
)

// Render writes doc as a PDF and reports the number of physical pages,
// which exceeds len(doc.Pages) when a table continues onto further pages.
// Nothing is returned unless every page rendered.
func Render(doc Document) ([]byte, int, error) {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("MarketSnap", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, page := range doc.Pages {
		pdf.AddPage()
		var err error
		switch page.Kind {
		case PageTitle:
			renderTitle(pdf, tr, page)
		case PageTable:
			renderTable(pdf, tr, page)
		case PageTrend:
			err = renderTrend(pdf, i, page)
		case PageNotes:
			renderNotes(pdf, tr, page)
		default:
			err = fmt.Errorf("unknown page kind %q", page.Kind)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("report: render page %d: %w", i+1, err)
		}
		if pdf.Err() {
			return nil, 0, fmt.Errorf("report: render page %d: %w", i+1, pdf.Error())
		}
	}

	pages := pdf.PageNo()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("report: render: %w", err)
	}
	return buf.Bytes(), pages, nil
}

func renderTitle(pdf *fpdf.Fpdf, tr func(string) string, page Page) {
	w, h := pdf.GetPageSize()
	pdf.SetFont(fontFamily, "B", 22)
	pdf.SetXY(pageMargin, h*0.38)
	pdf.CellFormat(w-2*pageMargin, 12, tr(page.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.Ln(4)
	pdf.CellFormat(w-2*pageMargin, 7, tr(strings.Join(page.Lines, " - ")), "", 1, "C", false, 0, "")
}

// renderTable draws page.Table, continuing on new pages with the title and
// header repeated whenever the next row would cross the bottom margin.
func renderTable(pdf *fpdf.Fpdf, tr func(string) string, page Page) {
	w, h := pdf.GetPageSize()
	usable := w - 2*pageMargin

	title := func(s string) {
		pdf.SetFont(fontFamily, "B", 15)
		pdf.CellFormat(usable, 10, tr(s), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	title(page.Title)

	t := page.Table
	if t == nil || len(t.Columns) == 0 {
		return
	}
	widths := columnWidths(t, usable)
	fontSize := 9.0
	if len(t.Columns) > 4 {
		fontSize = 7.5
	}
	rowH := fontSize * 0.7

	header := func() {
		pdf.SetFont(fontFamily, "B", fontSize)
		pdf.SetFillColor(229, 231, 235)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], rowH, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", fontSize)
	}
	header()

	for _, row := range t.Rows {
		if pdf.GetY()+rowH > h-pageMargin {
			pdf.AddPage()
			title(page.Title + " (cont.)")
			header()
		}
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = fit(pdf, tr(row[i]), widths[i]-2)
			}
			pdf.CellFormat(widths[i], rowH, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func renderTrend(pdf *fpdf.Fpdf, index int, page Page) error {
	png, err := RenderTrend(page.Title, page.Series)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("trend-%d", index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if pdf.Err() {
		return pdf.Error()
	}

	w, h := pdf.GetPageSize()
	imgW := w - 2*pageMargin
	imgH := imgW * chartHeight / chartWidth
	if maxH := h - 2*pageMargin; imgH > maxH {
		imgH = maxH
	}
	pdf.ImageOptions(name, pageMargin, pageMargin, imgW, imgH, false, opts, 0, "")
	return nil
}

func renderNotes(pdf *fpdf.Fpdf, tr func(string) string, page Page) {
	w, _ := pdf.GetPageSize()
	usable := w - 2*pageMargin
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(usable, 9, tr(page.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont(fontFamily, "", 10)
	for _, line := range page.Lines {
		pdf.MultiCell(usable, 6, tr("- "+line), "", "L", false)
	}
}

func columnWidths(t *Table, usable float64) []float64 {
	weights := t.Weights
	if len(weights) != len(t.Columns) {
		weights = make([]float64, len(t.Columns))
		for i := range weights {
			weights[i] = 1
		}
	}
	var total float64
	for _, wt := range weights {
		total += wt
	}
	out := make([]float64, len(weights))
	for i, wt := range weights {
		out[i] = usable * wt / total
	}
	return out
}

// fit truncates s with "..." until it is at most width wide. s is already
// in the single-byte font encoding.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
