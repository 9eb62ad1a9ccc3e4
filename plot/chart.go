package plot

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/drunplot/drunplot/trace"
)

// Image dimensions shared with the gnuplot template.
const (
	chartWidth  = 1200
	chartHeight = 960
)

// Chart renders plots natively with go-chart, for hosts without gnuplot
// installed. It plots the same columns against the same 1-based call index,
// so the numbers match the gnuplot output exactly.
type Chart struct {
	width  int
	height int
}

// NewChart returns a Chart renderer at the standard plot size.
func NewChart() *Chart {
	return &Chart{width: chartWidth, height: chartHeight}
}

// Render reads the metric column from every artifact and draws one
// legend-titled continuous series per artifact, in artifact order.
func (c *Chart) Render(series []Series, metric trace.Metric) ([]byte, error) {
	chartSeries := make([]chart.Series, 0, len(series))
	maxRows := 0
	for _, s := range series {
		ys, err := trace.ReadColumn(s.Path, metric.Column)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Title, err)
		}
		if len(ys) > maxRows {
			maxRows = len(ys)
		}
		xs := make([]float64, len(ys))
		for i := range ys {
			xs[i] = float64(i + 1)
		}
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    s.Title,
			XValues: xs,
			YValues: ys,
		})
	}

	// An explicit x-range keeps go-chart from rejecting single-row traces,
	// which gnuplot accepts.
	xRange := &chart.ContinuousRange{Min: 0, Max: float64(maxRows)}

	ch := chart.Chart{
		Title:  metric.AxisLabel(),
		Width:  c.width,
		Height: c.height,
		XAxis:  chart.XAxis{Name: "call", Range: xRange},
		YAxis:  chart.YAxis{Name: metric.AxisLabel()},
		Series: chartSeries,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
