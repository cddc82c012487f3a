// Package ranking orders model results by validation macro F1 and derives
// each model's gap to the best one.
package ranking

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/spboyer/modelreport/internal/models"
)

// ErrNoData is returned when there are no results to rank.
var ErrNoData = errors.New("no model results to rank")

// Rank returns a copy of results sorted by descending MacroF1, with
// DeltaFromBest and DeltaPct recomputed against the top entry. Any deltas
// already present on the input are ignored. Ties keep their input order.
//
// When the best MacroF1 is zero, DeltaPct is zero for every entry.
func Rank(results []models.ModelResult) (models.ComparisonRun, error) {
	if len(results) == 0 {
		return models.ComparisonRun{}, ErrNoData
	}

	run := make(models.ComparisonRun, len(results))
	copy(run, results)

	sort.SliceStable(run, func(a, b int) bool {
		return run[a].MacroF1 > run[b].MacroF1
	})

	best := run[0].MacroF1
	for i := range run {
		delta := best - run[i].MacroF1
		run[i].DeltaFromBest = delta
		if best == 0 {
			run[i].DeltaPct = 0
		} else {
			run[i].DeltaPct = delta / best * 100
		}
	}

	slog.Debug("Ranked model results", "count", len(run), "best", run[0].ModelName, "macro_f1", best)
	return run, nil
}

// Margin describes how far the winner leads the runner-up.
type Margin struct {
	Winner   string
	RunnerUp string
	Delta    float64
	Pct      float64
}

// WinnerMargin returns the lead of rank 1 over rank 2. ok is false when the
// run has fewer than two entries.
func WinnerMargin(run models.ComparisonRun) (m Margin, ok bool) {
	if len(run) < 2 {
		return Margin{}, false
	}
	return Margin{
		Winner:   run[0].ModelName,
		RunnerUp: run[1].ModelName,
		Delta:    run[1].DeltaFromBest,
		Pct:      run[1].DeltaPct,
	}, true
}
