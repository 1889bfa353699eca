package rosterservice

import (
	"fmt"
	"io"
	"math"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of the score chart.
type ChartPalette struct {
	Background drawing.Color
	Positive   drawing.Color
	Negative   drawing.Color
	Text       drawing.Color
}

// DefaultChartPalette is used by RenderScoreChart.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Positive:   chart.ColorBlue,
	Negative:   chart.ColorRed,
	Text:       drawing.ColorBlack,
}

const (
	chartHeight      = 480
	chartMinWidth    = 480
	chartBarWidth    = 40
	chartBarSpacing  = 20
	chartSideMargins = 120
)

// RenderScoreChart writes a PNG bar chart with one bar per player, measured from zero.
func RenderScoreChart(roster rosterdomain.Roster, w io.Writer) error {
	if len(roster) == 0 {
		return rosterdomain.ErrEmptyRoster
	}
	palette := DefaultChartPalette

	bars := make([]chart.Value, len(roster))
	lo, hi := 0.0, 0.0
	for i, p := range roster {
		v := float64(p.Score)
		fill := palette.Positive
		if p.Score < 0 {
			fill = palette.Negative
		}
		bars[i] = chart.Value{
			Label: p.Name,
			Value: v,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	// The renderer rejects a zero-height range.
	if lo == hi {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      "Scores",
		Width:      max(chartMinWidth, len(roster)*(chartBarWidth+chartBarSpacing)+chartSideMargins),
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render score chart: %w", err)
	}
	return nil
}
