// Package reporting turns a ranked comparison run into leaderboard and
// per-class breakdown views, and renders them for the console or export.
package reporting

import (
	"fmt"

	"github.com/spboyer/modelreport/internal/models"
)

// BestMarker is shown in the delta column for the top ranked model.
const BestMarker = "BEST"

// DefaultBreakdownSize is how many top models the per-class view lists.
const DefaultBreakdownSize = 3

var (
	LeaderboardHeaders = []string{"Rank", "Model", "Macro F1", "Accuracy", "Diff from Best", "Type"}
	BreakdownHeaders   = []string{"Model", "Dropout", "Enrolled", "Graduate"}
)

// LeaderboardRow is one formatted leaderboard line.
type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	Model    string `json:"model"`
	MacroF1  string `json:"macro_f1"`
	Accuracy string `json:"accuracy"`
	Delta    string `json:"diff_from_best"`
	Type     string `json:"type"`
}

// Cells returns the row in LeaderboardHeaders order.
func (r LeaderboardRow) Cells() []string {
	return []string{fmt.Sprintf("%d", r.Rank), r.Model, r.MacroF1, r.Accuracy, r.Delta, r.Type}
}

// IsBest reports whether the row is rank 1.
func (r LeaderboardRow) IsBest() bool { return r.Rank == 1 }

// BreakdownRow is one formatted per-class F1 line.
type BreakdownRow struct {
	Model    string `json:"model"`
	Dropout  string `json:"dropout"`
	Enrolled string `json:"enrolled"`
	Graduate string `json:"graduate"`
}

// Cells returns the row in BreakdownHeaders order.
func (r BreakdownRow) Cells() []string {
	return []string{r.Model, r.Dropout, r.Enrolled, r.Graduate}
}

// BuildLeaderboard formats every entry of an already ranked run.
func BuildLeaderboard(run models.ComparisonRun) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(run))
	for i, m := range run {
		rank := i + 1
		delta := BestMarker
		if rank != 1 {
			delta = fmt.Sprintf("%.4f (%.1f%%)", m.DeltaFromBest, m.DeltaPct)
		}
		rows = append(rows, LeaderboardRow{
			Rank:     rank,
			Model:    m.ModelName,
			MacroF1:  fmt.Sprintf("%.4f", m.MacroF1),
			Accuracy: fmt.Sprintf("%.4f", m.Accuracy),
			Delta:    delta,
			Type:     m.Type(),
		})
	}
	return rows
}

// BuildBreakdown formats per-class F1 for at most n leading entries.
func BuildBreakdown(run models.ComparisonRun, n int) []BreakdownRow {
	top := run.Top(n)
	rows := make([]BreakdownRow, 0, len(top))
	for _, m := range top {
		rows = append(rows, BreakdownRow{
			Model:    m.ModelName,
			Dropout:  fmt.Sprintf("%.3f", m.PerClassF1.Dropout()),
			Enrolled: fmt.Sprintf("%.3f", m.PerClassF1.Enrolled()),
			Graduate: fmt.Sprintf("%.3f", m.PerClassF1.Graduate()),
		})
	}
	return rows
}
