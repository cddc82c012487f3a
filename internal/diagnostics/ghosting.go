package diagnostics

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/metrics"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GroupBox is the box plot summary of one outcome group. Color is the
// palette index of the group.
type GroupBox struct {
	Label string
	Color int
	Stats metrics.BoxStats
}

// Ghosting plots units without evaluation in the first semester against
// the student outcome.
type Ghosting struct{}

func (Ghosting) Name() string     { return "ghosting" }
func (Ghosting) FileName() string { return "story_ghosting_effect.png" }

// GhostingBoxes summarizes units_without_eval_sem1 per class in
// models.ClassOrder, or as a single AllStudents box when the table has no
// Target column. Groups with no observations are omitted and no value is
// clipped.
func GhostingBoxes(t *dataset.Table) ([]GroupBox, error) {
	if err := t.Require(dataset.ColumnUnitsWithoutEvalSem1); err != nil {
		return nil, err
	}
	values, err := t.Numeric(dataset.ColumnUnitsWithoutEvalSem1)
	if err != nil {
		return nil, err
	}
	groups, err := groupRows(t)
	if err != nil {
		return nil, err
	}

	split := make([][]float64, len(groups.Labels))
	for i, v := range values {
		g, ok := groups.of(i)
		if !ok || math.IsNaN(v) {
			continue
		}
		split[g] = append(split[g], v)
	}

	var boxes []GroupBox
	for g, label := range groups.Labels {
		if stats, ok := metrics.ComputeBoxStats(split[g]); ok {
			boxes = append(boxes, GroupBox{Label: label, Color: g, Stats: stats})
		}
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("no %s observations for any outcome group", dataset.ColumnUnitsWithoutEvalSem1)
	}
	return boxes, nil
}

func (g Ghosting) Generate(t *dataset.Table, theme Theme, w io.Writer) error {
	boxes, err := GhostingBoxes(t)
	if err != nil {
		return err
	}

	const halfWidth = 0.3
	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(boxes))
	lo, hi := math.Inf(1), math.Inf(-1)

	for i, b := range boxes {
		x := float64(i + 1)
		col := theme.Color(b.Color)
		s := b.Stats
		ticks = append(ticks, chart.Tick{Value: x, Label: b.Label})
		slog.Debug("Ghosting box", "group", b.Label, "n", s.N, "median", s.Median, "mean", s.Mean, "stddev", s.StdDev)
		lo = math.Min(lo, s.Min)
		hi = math.Max(hi, s.Max)

		line := chart.Style{StrokeColor: col, StrokeWidth: 2}
		median := chart.Style{StrokeColor: theme.Text, StrokeWidth: 2}
		series = append(series,
			segment([]float64{x - halfWidth, x + halfWidth, x + halfWidth, x - halfWidth, x - halfWidth},
				[]float64{s.Q1, s.Q1, s.Q3, s.Q3, s.Q1}, line),
			segment([]float64{x - halfWidth, x + halfWidth}, []float64{s.Median, s.Median}, median),
			segment([]float64{x, x}, []float64{s.LowerWhisker, s.Q1}, line),
			segment([]float64{x, x}, []float64{s.Q3, s.UpperWhisker}, line),
			segment([]float64{x - halfWidth/2, x + halfWidth/2}, []float64{s.LowerWhisker, s.LowerWhisker}, line),
			segment([]float64{x - halfWidth/2, x + halfWidth/2}, []float64{s.UpperWhisker, s.UpperWhisker}, line),
		)
		if len(s.Outliers) > 0 {
			xs := make([]float64, len(s.Outliers))
			for j := range xs {
				xs[j] = x
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: s.Outliers,
				Style:   dotStyle(col, 4),
			})
		}
	}

	yMin, yMax := padRange(lo, hi)
	graph := chart.Chart{
		Title:      `The "Ghosting" Effect: Units Without Evaluation vs. Student Outcome`,
		TitleStyle: theme.titleStyle(),
		Width:      theme.Width,
		Height:     theme.Height,
		Background: theme.background(),
		XAxis: chart.XAxis{
			Name:  "Student Outcome",
			Style: theme.axisStyle(),
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(boxes)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Units Without Evaluation (Sem 1)",
			Style: theme.axisStyle(),
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

func segment(xs, ys []float64, style chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style}
}

// dotStyle renders points only, with no connecting line.
func dotStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

// padRange widens [lo, hi] by 5% on each side so extreme points are not
// drawn on the frame. A degenerate range is widened by one unit.
func padRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}
