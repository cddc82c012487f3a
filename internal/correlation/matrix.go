package correlation

import (
	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/metrics"
)

// Matrix is a symmetric pairwise correlation matrix over Labels.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// NewMatrix computes pairwise Pearson coefficients of the named numeric
// columns of t. The diagonal is 1 for columns with non-zero variance.
func NewMatrix(t *dataset.Table, cols []string) (*Matrix, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}

	series := make([][]float64, len(cols))
	for i, c := range cols {
		values, err := t.Numeric(c)
		if err != nil {
			return nil, err
		}
		series[i] = values
	}

	m := &Matrix{
		Labels: append([]string(nil), cols...),
		Values: make([][]float64, len(cols)),
	}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := 0; j <= i; j++ {
			r := metrics.Pearson(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return len(m.Labels) }

// UpperTriangleMask returns an n×n mask that hides cell (i, j) when j >= i,
// so only the strictly lower triangle of a symmetric matrix is shown.
func UpperTriangleMask(n int) [][]bool {
	mask := make([][]bool, n)
	for i := range mask {
		mask[i] = make([]bool, n)
		for j := i; j < n; j++ {
			mask[i][j] = true
		}
	}
	return mask
}
