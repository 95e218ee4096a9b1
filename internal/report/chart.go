package report

import (
	"fmt"
	"html/template"
	"strings"

	"MarketPulse/internal/model"
)

// ChartSeries is one line on a chart.
type ChartSeries struct {
	Name   string
	Points []float64
}

// ChartRenderer produces an embeddable HTML fragment for a set of price
// lines. A renderer that cannot draw (no data, rendering failure) returns
// an empty fragment and the report degrades to tables only.
type ChartRenderer interface {
	Render(title string, series []ChartSeries) template.HTML
}

// SeriesForChart extracts the close line from a price series.
func SeriesForChart(name string, s model.PriceSeries) ChartSeries {
	cs := ChartSeries{Name: name, Points: make([]float64, 0, s.Len())}
	for _, bar := range s.Bars {
		cs.Points = append(cs.Points, bar.Close)
	}
	return cs
}

// SVGChartRenderer draws inline SVG line charts: each series is normalized
// to the chart area independently so lines with very different price
// scales stay comparable by shape.
type SVGChartRenderer struct {
	Width  int
	Height int
}

// NewSVGChartRenderer returns a renderer with the standard report size.
func NewSVGChartRenderer() *SVGChartRenderer {
	return &SVGChartRenderer{Width: 700, Height: 300}
}

var chartPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

func (r *SVGChartRenderer) Render(title string, series []ChartSeries) template.HTML {
	drawable := make([]ChartSeries, 0, len(series))
	for _, s := range series {
		if len(s.Points) >= 2 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 {
		return ""
	}

	const pad = 10
	plotW := float64(r.Width - 2*pad)
	plotH := float64(r.Height - 2*pad - 20) // room for the legend row

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		r.Width, r.Height, r.Width, r.Height)
	fmt.Fprintf(&b, `<text x="%d" y="14" font-size="13" font-family="sans-serif">%s</text>`,
		pad, template.HTMLEscapeString(title))

	for i, s := range drawable {
		lo, hi := s.Points[0], s.Points[0]
		for _, p := range s.Points {
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		span := hi - lo
		if span == 0 {
			span = 1 // flat line draws mid-chart
		}
		color := chartPalette[i%len(chartPalette)]
		var pts strings.Builder
		for j, p := range s.Points {
			x := float64(pad) + plotW*float64(j)/float64(len(s.Points)-1)
			y := float64(pad+20) + plotH*(1-(p-lo)/span)
			if j > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>`, color, pts.String())
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" font-family="sans-serif" fill="%s">%s</text>`,
			pad+i*120, r.Height-4, color, template.HTMLEscapeString(s.Name))
	}
	b.WriteString("</svg>")
	return template.HTML(b.String())
}
