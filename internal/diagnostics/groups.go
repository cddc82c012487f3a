package diagnostics

import (
	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/models"
)

// AllStudents labels the single group used when the table has no Target
// column.
const AllStudents = "All students"

// outcomeGroups assigns table rows to the series a view draws. With a
// Target column there is one group per class in models.ClassOrder; without
// one every row belongs to a single AllStudents group.
type outcomeGroups struct {
	Labels []string
	// rows holds the group index of each row, or -1 for an unknown label.
	rows []int
}

func groupRows(t *dataset.Table) (outcomeGroups, error) {
	if !t.Has(dataset.TargetColumn) {
		return outcomeGroups{Labels: []string{AllStudents}, rows: make([]int, t.Len())}, nil
	}
	labels, err := t.Strings(dataset.TargetColumn)
	if err != nil {
		return outcomeGroups{}, err
	}

	g := outcomeGroups{
		Labels: make([]string, len(models.ClassOrder)),
		rows:   make([]int, len(labels)),
	}
	for i, c := range models.ClassOrder {
		g.Labels[i] = c.String()
	}
	for i, label := range labels {
		c, ok := models.ParseClass(label)
		if !ok {
			g.rows[i] = -1
			continue
		}
		g.rows[i] = int(c)
	}
	return g, nil
}

// of returns the group of row i and false when the row belongs to none.
func (g outcomeGroups) of(i int) (int, bool) {
	idx := g.rows[i]
	return idx, idx >= 0
}

