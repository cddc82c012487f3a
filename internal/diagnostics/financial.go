package diagnostics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
)

// CrosstabRow is the outcome distribution of one tuition status group.
// Percent is indexed like the outcome labels returned with the row and
// sums to 100.
type CrosstabRow struct {
	Group   float64
	Label   string
	Count   int
	Percent []float64
}

// Financial plots the outcome mix of students with and without tuition
// arrears.
type Financial struct{}

func (Financial) Name() string     { return "financial" }
func (Financial) FileName() string { return "story_financial_impact.png" }

// TuitionLabel names a tuition status group.
func TuitionLabel(group float64) string {
	switch group {
	case 0:
		return "Arrears"
	case 1:
		return "Up to Date"
	default:
		return strconv.FormatFloat(group, 'g', -1, 64)
	}
}

// Crosstab counts outcomes per tuition status and normalizes each group to
// percentages. It returns the outcome labels the percentages refer to;
// without a Target column that is a single AllStudents outcome. Groups are
// sorted by their numeric value.
func Crosstab(t *dataset.Table) ([]string, []CrosstabRow, error) {
	if err := t.Require(dataset.ColumnTuitionUpToDate); err != nil {
		return nil, nil, err
	}
	status, err := t.Numeric(dataset.ColumnTuitionUpToDate)
	if err != nil {
		return nil, nil, err
	}
	groups, err := groupRows(t)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[float64][]int)
	for i, v := range status {
		g, ok := groups.of(i)
		if !ok || math.IsNaN(v) {
			continue
		}
		row, ok := counts[v]
		if !ok {
			row = make([]int, len(groups.Labels))
			counts[v] = row
		}
		row[g]++
	}
	if len(counts) == 0 {
		return nil, nil, fmt.Errorf("no rows with both %s and a known outcome", dataset.ColumnTuitionUpToDate)
	}

	rows := make([]CrosstabRow, 0, len(counts))
	for group, n := range counts {
		total := 0
		for _, c := range n {
			total += c
		}
		row := CrosstabRow{Group: group, Label: TuitionLabel(group), Count: total, Percent: make([]float64, len(n))}
		for g := range n {
			row.Percent[g] = float64(n[g]) / float64(total) * 100
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Group < rows[j].Group })
	return groups.Labels, rows, nil
}

func (f Financial) Generate(t *dataset.Table, theme Theme, w io.Writer) error {
	outcomes, rows, err := Crosstab(t)
	if err != nil {
		return err
	}

	bars := make([]chart.StackedBar, 0, len(rows))
	for _, row := range rows {
		values := make([]chart.Value, 0, len(outcomes))
		for g := range outcomes {
			col := theme.Color(g)
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%.1f%%", row.Percent[g]),
				Value: row.Percent[g],
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
		bars = append(bars, chart.StackedBar{Name: row.Label, Values: values})
	}

	graph := chart.StackedBarChart{
		Title:      "Impact of Tuition Payment Status on Student Success",
		TitleStyle: theme.titleStyle(),
		Width:      theme.Width,
		Height:     theme.Height,
		Background: chart.Style{
			FillColor: theme.Background,
			Padding:   chart.Box{Top: 48, Left: 16, Right: legendWidth + 32, Bottom: 16},
		},
		XAxis:      theme.axisStyle(),
		YAxis:      theme.axisStyle(),
		BarSpacing: theme.Width / 8,
		Bars:       bars,
		Elements:   []chart.Renderable{classLegend(theme, "Outcome", outcomes)},
	}
	return graph.Render(chart.PNG, w)
}

const legendWidth = 110

// classLegend draws an outcome legend in the top right corner of the
// canvas for charts that have no built-in legend.
func classLegend(theme Theme, title string, labels []string) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		const (
			swatch = 12
			line   = 18
			pad    = 8
		)
		left := canvas.Right + 16
		top := canvas.Top

		text := chart.Style{FontSize: theme.FontSize - 2, FontColor: theme.Text}.InheritFrom(defaults)
		frame := chart.Box{
			Top:    top,
			Left:   left,
			Right:  left + legendWidth,
			Bottom: top + pad*2 + line*(len(labels)+1),
		}
		chart.Draw.Box(r, frame, chart.Style{FillColor: theme.Background, StrokeColor: chart.ColorLightGray, StrokeWidth: 1})

		y := top + pad + line - 4
		chart.Draw.Text(r, title, left+pad, y, text)
		for i, label := range labels {
			y += line
			col := theme.Color(i)
			chart.Draw.Box(r, chart.Box{Top: y - swatch, Left: left + pad, Right: left + pad + swatch, Bottom: y},
				chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1})
			chart.Draw.Text(r, label, left+pad+swatch+6, y, text)
		}
	}
}
