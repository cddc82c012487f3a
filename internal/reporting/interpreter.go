package reporting

import (
	"fmt"
	"strings"

	"github.com/spboyer/modelreport/internal/models"
	"github.com/spboyer/modelreport/internal/ranking"
)

// InterpretScore returns a plain-language label for a macro F1 score (0–1).
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretGap returns a plain-language label for a percentage gap between
// two models' macro F1.
func InterpretGap(pct float64) string {
	switch {
	case pct <= 0:
		return "tied"
	case pct < 1:
		return "practically tied (<1%)"
	case pct < 5:
		return "narrow lead (1-5%)"
	case pct < 10:
		return "clear lead (5-10%)"
	default:
		return "dominant lead (>10%)"
	}
}

// FormatSummary produces the plain-language lines shown under the
// leaderboard. It returns an empty string for an empty run.
func FormatSummary(run models.ComparisonRun) string {
	best, ok := run.Best()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Best model: %s (macro F1 %.4f, %s)\n", best.ModelName, best.MacroF1, InterpretScore(best.MacroF1)))

	if m, ok := ranking.WinnerMargin(run); ok {
		b.WriteString(fmt.Sprintf("Lead over %s: %.4f (%.1f%%), %s\n", m.RunnerUp, m.Delta, m.Pct, InterpretGap(m.Pct)))
	}

	var baselines []string
	for _, r := range run {
		if r.IsBaseline {
			baselines = append(baselines, r.ModelName)
		}
	}
	if len(baselines) > 0 && !best.IsBaseline {
		b.WriteString(fmt.Sprintf("Baselines beaten: %s\n", strings.Join(baselines, ", ")))
	}

	return b.String()
}
