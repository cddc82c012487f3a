package correlation

import (
	"fmt"
	"math"
	"testing"

	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outcomeTable builds a table whose columns have known correlations with
// the encoded target [0, 1, 2, 2, 0, 1].
func outcomeTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(
		[]string{"Target", "Course", "same", "opposite", "constant", "weak"},
		[][]string{
			{"Dropout", "Nursing", "0", "0", "7", "1"},
			{"Enrolled", "Design", "1", "-1", "7", "0"},
			{"Graduate", "Nursing", "2", "-2", "7", "1"},
			{"Graduate", "Design", "2", "-2", "7", "1"},
			{"Dropout", "Nursing", "0", "0", "7", "0"},
			{"Enrolled", "Design", "1", "-1", "7", "1"},
		},
	)
	require.NoError(t, err)
	return table
}

func TestEncode(t *testing.T) {
	table, err := dataset.NewTable([]string{"Target"}, [][]string{{"Graduate"}, {"Dropout"}, {"Enrolled"}, {"Unknown"}})
	require.NoError(t, err)

	encoded, err := Encode(table)
	require.NoError(t, err)
	codes, err := encoded.Numeric(EncodedTargetColumn)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 0, 1}, codes[:3])
	assert.True(t, math.IsNaN(codes[3]))
	assert.False(t, table.Has(EncodedTargetColumn), "input table is not modified")
}

func TestRank(t *testing.T) {
	ranking, err := Rank(outcomeTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"same", EncodedTargetColumn, "weak", "opposite", "constant"}, ranking.Features())
	assert.Equal(t, 1.0, ranking[0].Coefficient)
	assert.Equal(t, 1.0, ranking[1].Coefficient)
	assert.InDelta(t, -1.0, ranking[3].Coefficient, 1e-12)
	assert.True(t, math.IsNaN(ranking[4].Coefficient), "constant column has undefined correlation")

	for _, fc := range ranking {
		assert.NotEqual(t, "Course", fc.Feature, "categorical columns are excluded")
	}
}

func TestRank_MissingTarget(t *testing.T) {
	table, err := dataset.NewTable([]string{"Age"}, [][]string{{"20"}, {"21"}})
	require.NoError(t, err)

	_, err = Rank(table)
	require.ErrorIs(t, err, dataset.ErrSchemaMismatch)
}

func TestRank_Deterministic(t *testing.T) {
	table := outcomeTable(t)
	first, err := Rank(table)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Rank(table)
		require.NoError(t, err)
		assert.Equal(t, first.Features(), again.Features())
	}
}

func syntheticRanking(n int) models.FeatureCorrelationRanking {
	r := make(models.FeatureCorrelationRanking, n)
	for i := range r {
		r[i] = models.FeatureCorrelation{Feature: fmt.Sprintf("f%02d", i), Coefficient: 1 - float64(i)/float64(n)}
	}
	return r
}

func TestSelect_Windows(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		head, tail int
		wantLen    int
		wantFirst  string
		wantLast   string
	}{
		{"wide table no overlap", 30, 11, 5, 16, "f00", "f29"},
		{"exactly sixteen", 16, 11, 5, 16, "f00", "f15"},
		{"narrow table overlaps", 12, 11, 5, 12, "f00", "f11"},
		{"fewer than head", 6, 11, 5, 6, "f00", "f05"},
		{"empty", 0, 11, 5, 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking := syntheticRanking(tt.n)
			got := Select(ranking, tt.head, tt.tail)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}
			assert.Equal(t, tt.wantFirst, got[0])
			assert.Equal(t, tt.wantLast, got[len(got)-1])
		})
	}
}

func TestSelect_DedupProperties(t *testing.T) {
	for n := 0; n <= 24; n++ {
		ranking := syntheticRanking(n)
		got := Select(ranking, DefaultHead, DefaultTail)

		head := min(DefaultHead, n)
		tail := min(DefaultTail, n)
		headSet := make(map[string]bool)
		for _, f := range ranking[:head] {
			headSet[f.Feature] = true
		}
		overlap := 0
		for _, f := range ranking[n-tail:] {
			if headSet[f.Feature] {
				overlap++
			}
		}
		assert.Len(t, got, head+tail-overlap, "n=%d", n)

		seen := make(map[string]bool)
		for _, f := range got {
			assert.False(t, seen[f], "n=%d: %s repeated", n, f)
			seen[f] = true
		}

		// first-seen order: head window verbatim, then the tail remainder
		for i := 0; i < head; i++ {
			assert.Equal(t, ranking[i].Feature, got[i])
		}
	}
}

func TestSelect_SkipsUndefined(t *testing.T) {
	ranking := models.FeatureCorrelationRanking{
		{Feature: "a", Coefficient: 0.9},
		{Feature: "b", Coefficient: -0.4},
		{Feature: "c", Coefficient: math.NaN()},
	}
	assert.Equal(t, []string{"a", "b"}, Select(ranking, 1, 1))
}

func TestSelector_Features_ConstantColumnNotInTail(t *testing.T) {
	table, err := dataset.NewTable(
		[]string{"Target", "a", "b", "const"},
		[][]string{
			{"Dropout", "1", "5", "3"},
			{"Enrolled", "2", "3", "3"},
			{"Graduate", "4", "1", "3"},
			{"Graduate", "3", "2", "3"},
		},
	)
	require.NoError(t, err)

	_, selected, err := DefaultSelector.Features(table)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{EncodedTargetColumn, "a", "b"}, selected)
	assert.NotContains(t, selected, "const")
}

func TestSelector_Features(t *testing.T) {
	encoded, selected, err := Selector{Head: 2, Tail: 1}.Features(outcomeTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"same", EncodedTargetColumn, "opposite"}, selected)
	assert.True(t, encoded.Has(EncodedTargetColumn))
}
