package trend

import (
	"bytes"
	"fmt"
	"time"

	"PortfolioDesk/internal/format"
	"PortfolioDesk/internal/model"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderPNG draws the series as a value line over a dashed cost line.
// Returns raw PNG bytes.
func RenderPNG(title string, points []model.TrendPoint, costBasis float64) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	valueY := make([]float64, len(points))
	costY := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Month
		valueY[i] = p.Value
		costY[i] = costBasis
	}

	lineColor := drawing.ColorFromHex("16a34a") // green-600
	if points[len(points)-1].ProfitLoss < 0 {
		lineColor = drawing.ColorFromHex("dc2626") // red-600
	}

	valueSeries := chart.TimeSeries{
		Name: "Tahmini değer",
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}

	costSeries := chart.TimeSeries{
		Name: "Maliyet",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: costY,
	}

	graph := chart.Chart{
		Title:  title + " (tahmini)",
		Width:  720,
		Height: 320,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("01/06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format.Amount(f)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries, costSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
