// Package render draws report tables as images.
package render

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"league-piper/internal/report"
)

const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
	barWidth      = vg.Points(18)
)

// BarChart writes a grouped bar chart PNG of t: one group per row label, one
// bar per column. NaN cells are drawn as zero-height bars.
func BarChart(w io.Writer, t *report.Table) error {
	return BarChartSize(w, t, DefaultWidth, DefaultHeight)
}

// BarChartSize is BarChart with an explicit canvas size
func BarChartSize(w io.Writer, t *report.Table, width, height vg.Length) error {
	if len(t.Columns) == 0 || len(t.Index) == 0 {
		return fmt.Errorf("cannot chart an empty table")
	}

	p := plot.New()
	p.Title.Text = "Average KDA"
	p.Y.Label.Text = "per game"
	p.Y.Min = 0
	p.Legend.Top = true

	n := len(t.Columns)
	for ci, name := range t.Columns {
		values := make(plotter.Values, len(t.Index))
		for ri, v := range t.Column(ci) {
			if math.IsNaN(v) {
				v = 0
			}
			values[ri] = v
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(ci)
		// Center the group on each tick
		bars.Offset = barWidth * vg.Length(2*ci-n+1) / 2

		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.NominalX(t.Index...)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
