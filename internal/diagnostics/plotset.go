// Package diagnostics renders the exploratory story plots of the student
// outcome dataset.
package diagnostics

//go:generate go tool mockgen -source=plotset.go -destination=mock_generator_test.go -package=diagnostics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spboyer/modelreport/internal/correlation"
	"github.com/spboyer/modelreport/internal/dataset"
	"golang.org/x/sync/errgroup"
)

// DefaultDir is where plots are written when no directory is configured.
const DefaultDir = "artifacts/plots"

// Generator renders one view of the feature table as a PNG.
type Generator interface {
	Name() string
	FileName() string
	Generate(table *dataset.Table, theme Theme, w io.Writer) error
}

// Result reports the outcome of one generator.
type Result struct {
	Name     string
	Path     string
	Err      error
	Duration time.Duration
}

// OK reports whether the view was written.
func (r Result) OK() bool { return r.Err == nil }

// PlotSet runs a fixed list of generators against the same table.
type PlotSet struct {
	Generators []Generator
	Theme      Theme
	// Workers bounds concurrent generators; zero runs them all at once.
	Workers int
}

// NewPlotSet returns the four story views with the given theme and
// heatmap feature selector.
func NewPlotSet(theme Theme, selector correlation.Selector) *PlotSet {
	return &PlotSet{
		Generators: []Generator{
			Ghosting{},
			Financial{},
			Momentum{},
			Heatmap{Selector: selector},
		},
		Theme: theme,
	}
}

// Generate writes every view into dir. One Result is returned per
// generator in Generators order; a failing view never stops the others.
func (p *PlotSet) Generate(ctx context.Context, table *dataset.Table, dir string) []Result {
	results := make([]Result, len(p.Generators))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("creating plot directory %s: %w", dir, err)
		for i, gen := range p.Generators {
			results[i] = Result{Name: gen.Name(), Path: filepath.Join(dir, gen.FileName()), Err: err}
		}
		return results
	}

	var eg errgroup.Group
	if p.Workers > 0 {
		eg.SetLimit(p.Workers)
	}
	for i, gen := range p.Generators {
		eg.Go(func() error {
			results[i] = p.run(ctx, gen, table, dir)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (p *PlotSet) run(ctx context.Context, gen Generator, table *dataset.Table, dir string) Result {
	res := Result{Name: gen.Name(), Path: filepath.Join(dir, gen.FileName())}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	err := writeAtomic(res.Path, func(w io.Writer) error {
		return gen.Generate(table, p.Theme, w)
	})
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.Name, err)
		slog.Debug("Plot failed", "view", res.Name, "error", err)
		return res
	}

	slog.Debug("Plot written", "view", res.Name, "path", res.Path, "duration", res.Duration)
	return res
}

// Err joins the errors of every failed result, or returns nil.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// writeAtomic streams into a temp file next to path and renames it into
// place. On any failure the temp file is removed and path is untouched.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Error("failed to remove temporary plot file", "path", tmpPath, "error", rmErr)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
