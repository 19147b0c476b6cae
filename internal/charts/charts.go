// Package charts renders report data as PNG images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"trackmaster/internal/core"
)

// Generator renders expense aggregations into charts
type Generator struct{}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryBarChart renders per-category totals as a bar chart PNG.
// Returns nil when there is nothing to plot.
func (g *Generator) CategoryBarChart(totals []core.CategoryAmount) ([]byte, error) {
	if len(totals) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %.2f", ct.Category, ct.Amount),
			Value: ct.Amount,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(180),
				FontSize:    10,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Spending by category",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    1000,
		Height:   500,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DailyLineChart renders a day-by-day spending series as a line chart PNG.
// Returns nil when the series has fewer than two points, as a line needs
// at least two values to render.
func (g *Generator) DailyLineChart(series []core.DayAmount) ([]byte, error) {
	if len(series) < 2 {
		return nil, nil
	}

	xValues := make([]float64, len(series))
	yValues := make([]float64, len(series))
	ticks := make([]chart.Tick, 0, len(series))
	for i, point := range series {
		xValues[i] = float64(i)
		yValues[i] = point.Amount
		// Label every few days to keep the axis readable
		step := len(series)/10 + 1
		if i%step == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: point.Date[5:]})
		}
	}

	graph := chart.Chart{
		Title:  "Daily spending",
		Width:  1000,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Spent",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render daily chart: %w", err)
	}
	return buffer.Bytes(), nil
}
