// Package correlation ranks numeric features by their Pearson correlation
// with the encoded student outcome and picks the ones worth plotting.
package correlation

import (
	"fmt"
	"math"
	"sort"

	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/metrics"
	"github.com/spboyer/modelreport/internal/models"
)

// EncodedTargetColumn is the numeric copy of the Target column
// (Dropout=0, Enrolled=1, Graduate=2).
const EncodedTargetColumn = "Target_Encoded"

// Default window sizes. The head window usually contains the encoded
// target itself at 1.0, leaving ten positive features.
const (
	DefaultHead = 11
	DefaultTail = 5
)

// Encode returns a copy of t with EncodedTargetColumn appended. Labels
// outside the known classes encode as NaN.
func Encode(t *dataset.Table) (*dataset.Table, error) {
	labels, err := t.Strings(dataset.TargetColumn)
	if err != nil {
		return nil, err
	}
	codes := make([]float64, len(labels))
	for i, l := range labels {
		codes[i] = models.EncodeClass(l)
	}
	return t.WithColumn(EncodedTargetColumn, codes)
}

// Rank correlates every numeric column, including the encoded target,
// against the encoded target. The result is sorted by descending
// coefficient; ties keep table column order and undefined coefficients
// sort last.
func Rank(t *dataset.Table) (models.FeatureCorrelationRanking, error) {
	encoded, err := Encode(t)
	if err != nil {
		return nil, err
	}
	return rankEncoded(encoded)
}

func rankEncoded(encoded *dataset.Table) (models.FeatureCorrelationRanking, error) {
	target, err := encoded.Numeric(EncodedTargetColumn)
	if err != nil {
		return nil, err
	}

	cols := encoded.NumericColumns()
	ranking := make(models.FeatureCorrelationRanking, 0, len(cols))
	for _, name := range cols {
		values, err := encoded.Numeric(name)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, models.FeatureCorrelation{
			Feature:     name,
			Coefficient: metrics.Pearson(values, target),
		})
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		ca, cb := ranking[a].Coefficient, ranking[b].Coefficient
		if math.IsNaN(ca) || math.IsNaN(cb) {
			return !math.IsNaN(ca) && math.IsNaN(cb)
		}
		return ca > cb
	})
	return ranking, nil
}

// Select takes the first head and last tail features of the defined part
// of the ranking and concatenates them, dropping repeats so the first
// occurrence wins.
func Select(ranking models.FeatureCorrelationRanking, head, tail int) []string {
	defined := make([]string, 0, len(ranking))
	for _, fc := range ranking {
		if !math.IsNaN(fc.Coefficient) {
			defined = append(defined, fc.Feature)
		}
	}

	head = clamp(head, len(defined))
	tail = clamp(tail, len(defined))

	candidates := make([]string, 0, head+tail)
	candidates = append(candidates, defined[:head]...)
	candidates = append(candidates, defined[len(defined)-tail:]...)
	return dedupe(candidates)
}

// Selector bundles the window sizes used to pick heatmap features.
type Selector struct {
	Head int
	Tail int
}

// DefaultSelector uses DefaultHead and DefaultTail.
var DefaultSelector = Selector{Head: DefaultHead, Tail: DefaultTail}

// Features ranks t and returns the encoded table along with the selected
// feature names, ready for Matrix.
func (s Selector) Features(t *dataset.Table) (*dataset.Table, []string, error) {
	encoded, err := Encode(t)
	if err != nil {
		return nil, nil, err
	}
	ranking, err := rankEncoded(encoded)
	if err != nil {
		return nil, nil, err
	}
	selected := Select(ranking, s.Head, s.Tail)
	if len(selected) == 0 {
		return nil, nil, fmt.Errorf("no numeric feature has a defined correlation with %s", dataset.TargetColumn)
	}
	return encoded, selected, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
