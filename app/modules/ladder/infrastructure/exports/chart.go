package ladderexports

import (
	"bytes"
	"fmt"

	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette colours the points chart.
type Palette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultPalette is a court-green scheme.
var DefaultPalette = Palette{
	Background:  drawing.ColorFromHex("f7f7f2"),
	PrimaryLine: drawing.ColorFromHex("1f6f54"),
	AccentLine:  drawing.ColorFromHex("d9a404"),
	TextColor:   drawing.ColorFromHex("2b2b2b"),
}

const ContentTypePNG = "image/png"

// PointsChart draws a player's points per closed round next to the running total.
func PointsChart(history *ladderservice.PlayerHistory, palette Palette) ([]byte, error) {
	if history == nil || len(history.Rounds) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	xs := make([]float64, len(history.Rounds))
	points := make([]float64, len(history.Rounds))
	running := make([]float64, len(history.Rounds))
	ticks := make([]chart.Tick, len(history.Rounds))
	total, top := 0.0, 1.0
	for i, r := range history.Rounds {
		xs[i] = float64(r.RoundNumber)
		points[i] = r.Points
		total += r.Points
		running[i] = total
		ticks[i] = chart.Tick{Value: xs[i], Label: fmt.Sprintf("R%d", r.RoundNumber)}
		top = max(top, total, r.Points)
	}

	graph := chart.Chart{
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Name:  "Round",
			Style: chart.Style{FontColor: palette.TextColor},
			Range: &chart.ContinuousRange{Min: xs[0] - 0.5, Max: xs[len(xs)-1] + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: palette.TextColor},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Points",
				XValues: xs,
				YValues: points,
				Style: chart.Style{
					StrokeColor: palette.PrimaryLine,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    palette.PrimaryLine,
				},
			},
			chart.ContinuousSeries{
				Name:    "Total",
				XValues: xs,
				YValues: running,
				Style: chart.Style{
					StrokeColor:     palette.AccentLine,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render points chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderNoDataPlaceholder(palette Palette) ([]byte, error) {
	const msg = "No closed rounds yet"

	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render refuses a chart without series.
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{Hidden: true},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
