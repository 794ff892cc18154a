// Package report renders already-computed TaxEstimate/SaleResult data
// for the external report-generation boundary (§6: "report rendering …
// specified only at their interface with the core"). Nothing here
// computes a tax figure; every function is a pure formatter over values
// the engines already produced.
package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"taxrecon/internal/domain"
)

// categoryOrder fixes the six-way schedule-category partition (§3) in
// display order for the bar chart's X axis.
var categoryOrder = []domain.ScheduleCategory{
	domain.CategoryA, domain.CategoryB, domain.CategoryC,
	domain.CategoryD, domain.CategoryE, domain.CategoryF,
}

// GainLossByCategoryPNG renders a bar chart of net gain/loss summed by
// schedule category via the standard plot.New() -> p.Add(...) ->
// p.WriterTo(...) gonum/plot rendering sequence.
func GainLossByCategoryPNG(results []domain.SaleResult, widthPx, heightPx int) ([]byte, error) {
	totals := make(map[domain.ScheduleCategory]float64, len(categoryOrder))
	for _, r := range results {
		f, _ := r.GainOrLoss.Float64()
		totals[r.Category] += f
	}

	values := make(plotter.Values, len(categoryOrder))
	labels := make([]string, len(categoryOrder))
	for i, cat := range categoryOrder {
		values[i] = totals[cat]
		labels[i] = cat.String()
	}

	p := plot.New()
	p.Title.Text = "Realized gain/loss by schedule category"
	p.Y.Label.Text = "Gain or loss ($)"

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("report: build bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	writer, err := p.WriterTo(vg.Length(widthPx), vg.Length(heightPx), "png")
	if err != nil {
		return nil, fmt.Errorf("report: chart writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("report: render chart: %w", err)
	}
	return buf.Bytes(), nil
}
