package diagnostics

import (
	"errors"
	"io"
	"math"

	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/metrics"
	"github.com/wcharczuk/go-chart/v2"
)

// GroupPoints holds the (sem1, sem2) grade pairs of one outcome group.
// Color is the palette index of the group.
type GroupPoints struct {
	Label string
	Color int
	X, Y  []float64
}

// Momentum plots second semester grades against first semester grades.
type Momentum struct{}

func (Momentum) Name() string     { return "momentum" }
func (Momentum) FileName() string { return "story_academic_momentum.png" }

// MomentumPoints groups grade pairs by class in models.ClassOrder, or into
// a single AllStudents series when the table has no Target column, and
// returns the end of the no-change diagonal, the largest grade seen in
// either semester. Rows missing either grade are skipped for the scatter
// but still count toward the diagonal.
func MomentumPoints(t *dataset.Table) ([]GroupPoints, float64, error) {
	if err := t.Require(dataset.ColumnGradeSem1, dataset.ColumnGradeSem2); err != nil {
		return nil, 0, err
	}
	sem1, err := t.Numeric(dataset.ColumnGradeSem1)
	if err != nil {
		return nil, 0, err
	}
	sem2, err := t.Numeric(dataset.ColumnGradeSem2)
	if err != nil {
		return nil, 0, err
	}
	groups, err := groupRows(t)
	if err != nil {
		return nil, 0, err
	}

	byGroup := make([]GroupPoints, len(groups.Labels))
	for g, label := range groups.Labels {
		byGroup[g] = GroupPoints{Label: label, Color: g}
	}
	for i := range sem1 {
		g, ok := groups.of(i)
		if !ok || math.IsNaN(sem1[i]) || math.IsNaN(sem2[i]) {
			continue
		}
		byGroup[g].X = append(byGroup[g].X, sem1[i])
		byGroup[g].Y = append(byGroup[g].Y, sem2[i])
	}

	points := byGroup[:0]
	for _, p := range byGroup {
		if len(p.X) > 0 {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, 0, errors.New("no rows with both semester grades and a known outcome")
	}

	max1, _ := metrics.Max(sem1)
	max2, _ := metrics.Max(sem2)
	return points, math.Max(max1, max2), nil
}

func (m Momentum) Generate(t *dataset.Table, theme Theme, w io.Writer) error {
	points, diag, err := MomentumPoints(t)
	if err != nil {
		return err
	}

	series := make([]chart.Series, 0, len(points)+1)
	for _, p := range points {
		col := theme.Color(p.Color).WithAlpha(153)
		series = append(series, chart.ContinuousSeries{
			Name:    p.Label,
			XValues: p.X,
			YValues: p.Y,
			Style:   dotStyle(col, 3),
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "No Grade Change",
		XValues: []float64{0, diag},
		YValues: []float64{0, diag},
		Style: chart.Style{
			StrokeColor:     theme.Reference,
			StrokeWidth:     2,
			StrokeDashArray: []float64{6, 4},
		},
	})

	lo := 0.0
	for _, p := range points {
		for _, v := range p.X {
			lo = math.Min(lo, v)
		}
		for _, v := range p.Y {
			lo = math.Min(lo, v)
		}
	}
	hi := diag
	if hi <= lo {
		hi = lo + 1
	}
	axisMin, axisMax := padRange(lo, hi)

	graph := chart.Chart{
		Title:      "Academic Momentum: 1st vs 2nd Semester Grades",
		TitleStyle: theme.titleStyle(),
		Width:      theme.Width,
		Height:     theme.Height,
		Background: theme.background(),
		XAxis: chart.XAxis{
			Name:  "1st Semester Grade",
			Style: theme.axisStyle(),
			Range: &chart.ContinuousRange{Min: axisMin, Max: axisMax},
		},
		YAxis: chart.YAxis{
			Name:  "2nd Semester Grade",
			Style: theme.axisStyle(),
			Range: &chart.ContinuousRange{Min: axisMin, Max: axisMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}
