package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MarketSnap/internal/domain/models"
)

const (
	chartWidth  = 1100
	chartHeight = 640
)

// RenderTrend draws the close prices of s as a PNG line chart.
func RenderTrend(title string, s *models.TimeSeries) ([]byte, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("no data points for %q", title)
	}

	xValues := make([]time.Time, s.Len())
	yValues := make([]float64, s.Len())
	for i, b := range s.Bars {
		xValues[i] = b.Date
		yValues[i] = b.Close
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Range: xRange(xValues),
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Range: yRange(yValues),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
			GridMajorStyle: gridStyle(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: s.Symbol,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor:     drawing.ColorFromHex("d1d5db"),
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{2.0, 2.0},
	}
}

// xRange widens a single-day series so the axis never has zero width.
func xRange(xs []time.Time) *chart.ContinuousRange {
	lo, hi := xs[0], xs[len(xs)-1]
	if !hi.After(lo) {
		lo, hi = lo.AddDate(0, 0, -1), hi.AddDate(0, 0, 1)
	}
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)}
}

// yRange pads the close range by 5%, or by 1% of the level for flat series.
func yRange(ys []float64) *chart.ContinuousRange {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = min(lo, y)
		hi = max(hi, y)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = max(abs(lo)*0.01, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
