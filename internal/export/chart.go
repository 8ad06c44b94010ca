package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KirkDiggler/kartboard/internal/leaderboard"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// WritePNG draws each player's cumulative points after every race
func WritePNG(w io.Writer, snap *Snapshot) error {
	players, cumulative := leaderboard.Totals(snap.Results)

	lastRace := 0
	maxPoints := 0
	series := make([]chart.Series, 0, len(players)+1)
	for i, name := range players {
		points := cumulative[name]
		if len(points) > lastRace {
			lastRace = len(points)
		}

		// Every line starts at zero before race 1
		xValues := make([]float64, 0, len(points)+1)
		yValues := make([]float64, 0, len(points)+1)
		xValues = append(xValues, 0)
		yValues = append(yValues, 0)
		for race, total := range points {
			xValues = append(xValues, float64(race+1))
			yValues = append(yValues, float64(total))
			if total > maxPoints {
				maxPoints = total
			}
		}

		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    color,
			},
		})
	}

	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "No results",
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack.WithAlpha(64),
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Game %s", snap.Game.ID),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Race",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(max(lastRace, 1)),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Points",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(max(maxPoints, 1)),
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
