package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pplcc/plotext/custplotter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"taxrecon/internal/domain"
)

// CumulativeGainLossPNG renders the running realized gain/loss for the
// tax year as a monthly candlestick series: open/close are the
// cumulative total at month start/end, high/low the running extremes
// within the month. A taxpayer watching this trajectory can see which
// month to time a loss-harvesting sale in, which is what the
// tax-loss-harvesting analyzer (§4.5) recommends a deadline for.
func CumulativeGainLossPNG(year int, results []domain.SaleResult, widthPx, heightPx int) ([]byte, error) {
	monthly := make([]float64, 13) // index 0 unused; 1..12
	for _, r := range results {
		if r.SaleDate.Year() != year {
			continue
		}
		f, _ := r.GainOrLoss.Float64()
		monthly[int(r.SaleDate.Month())] += f
	}

	var bars custplotter.TOHLCVs
	running := 0.0
	for m := 1; m <= 12; m++ {
		open := running
		running += monthly[m]
		closeVal := running
		high, low := open, closeVal
		if closeVal > high {
			high = closeVal
		}
		if closeVal < low {
			low = closeVal
		}
		bars = append(bars, struct {
			T, O, H, L, C, V float64
		}{
			T: float64(time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Unix()),
			O: open,
			H: high,
			L: low,
			C: closeVal,
			V: 0,
		})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d cumulative realized gain/loss", year)
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan"}

	candles, err := custplotter.NewCandlesticks(bars)
	if err != nil {
		return nil, fmt.Errorf("report: build candlestick chart: %w", err)
	}
	p.Add(candles)

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
