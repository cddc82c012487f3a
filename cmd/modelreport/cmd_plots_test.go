package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storyPlots = []string{
	"story_ghosting_effect.png",
	"story_financial_impact.png",
	"story_academic_momentum.png",
	"story_correlation_heatmap.png",
}

// writeDataset writes a raw dataset CSV with the columns the story plots
// need. Columns named in drop are omitted.
func writeDataset(t *testing.T, dir string, drop ...string) string {
	t.Helper()
	headers := []string{
		"Target",
		"Curricular units 1st sem (without evaluations)",
		"Tuition fees up to date",
		"Curricular units 1st sem (grade)",
		"Curricular units 2nd sem (grade)",
		"Age at enrollment",
	}
	classes := []string{"Dropout", "Enrolled", "Graduate"}

	keep := make([]bool, len(headers))
	var cols []string
	for i, h := range headers {
		keep[i] = true
		for _, d := range drop {
			if h == d {
				keep[i] = false
			}
		}
		if keep[i] {
			cols = append(cols, fmt.Sprintf("%q", h))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, ",") + "\n")
	for i := 0; i < 45; i++ {
		c := i % 3
		units := 0
		if c == 0 {
			units = i % 5
		}
		tuition := 1
		if c == 0 && i%2 == 1 {
			tuition = 0
		}
		sem1 := 10.0 + float64(c)*2 + float64(i%4)*0.75
		sem2 := sem1 + float64(c-1)
		cells := []string{
			classes[c],
			fmt.Sprint(units),
			fmt.Sprint(tuition),
			fmt.Sprintf("%.2f", sem1),
			fmt.Sprintf("%.2f", sem2),
			fmt.Sprint(18 + i%9),
		}
		var row []string
		for j, cell := range cells {
			if keep[j] {
				row = append(row, cell)
			}
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}

	p := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func TestPlotsCommand_WritesAllViews(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	out, _, err := runCLI(t, dir, "plots")
	require.NoError(t, err)
	assert.Contains(t, out, "Generating story plots")
	assert.Contains(t, out, "All story plots generated successfully")

	for _, name := range storyPlots {
		assert.FileExists(t, filepath.Join(dir, "artifacts", "plots", name))
	}
}

func TestPlotsCommand_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	data := writeDataset(t, t.TempDir())
	outDir := filepath.Join(t.TempDir(), "custom")

	_, _, err := runCLI(t, dir, "plots", "--dataset", data, "--out", outDir)
	require.NoError(t, err)
	for _, name := range storyPlots {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestPlotsCommand_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "Tuition fees up to date")

	_, errOut, err := runCLI(t, dir, "plots")
	require.Error(t, err)

	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Failed)
	assert.Equal(t, 4, partial.Total)
	assert.Equal(t, ExitPartial, exitCode(err))
	assert.Contains(t, errOut, "Tuition fees up to date")

	plots := filepath.Join(dir, "artifacts", "plots")
	assert.NoFileExists(t, filepath.Join(plots, "story_financial_impact.png"))
	assert.FileExists(t, filepath.Join(plots, "story_ghosting_effect.png"))
	assert.FileExists(t, filepath.Join(plots, "story_correlation_heatmap.png"))
}

func TestPlotsCommand_MissingTargetFailsOnlyHeatmap(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "Target")

	_, errOut, err := runCLI(t, dir, "plots")
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Failed)
	assert.Contains(t, errOut, "heatmap")

	plots := filepath.Join(dir, "artifacts", "plots")
	assert.NoFileExists(t, filepath.Join(plots, "story_correlation_heatmap.png"))
	for _, name := range storyPlots[:3] {
		assert.FileExists(t, filepath.Join(plots, name))
	}
}

func TestPlotsCommand_EngineeredSkipsDerivation(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	// the raw dataset lacks units_without_eval_sem1, so reading it as-is
	// fails the ghosting view only
	_, errOut, err := runCLI(t, dir, "plots", "--engineered")
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Failed)
	assert.Contains(t, errOut, "units_without_eval_sem1")

	plots := filepath.Join(dir, "artifacts", "plots")
	assert.NoFileExists(t, filepath.Join(plots, "story_ghosting_effect.png"))
	assert.FileExists(t, filepath.Join(plots, "story_financial_impact.png"))
}

func TestPlotsCommand_EngineeredFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	config := "plots:\n  engineered: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".modelreport.yaml"), []byte(config), 0o644))

	_, _, err := runCLI(t, dir, "plots")
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)

	// the flag still wins over config
	_, _, err = runCLI(t, dir, "plots", "--engineered=false")
	require.NoError(t, err)
}

func TestPlotsCommand_MissingDataset(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "plots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not load dataset")
	assert.Equal(t, ExitError, exitCode(err))
}

func TestPlotsCommand_SequentialFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	config := "plots:\n  parallel: false\n  width: 640\n  height: 480\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".modelreport.yaml"), []byte(config), 0o644))

	_, _, err := runCLI(t, dir, "plots")
	require.NoError(t, err)
	for _, name := range storyPlots {
		assert.FileExists(t, filepath.Join(dir, "artifacts", "plots", name))
	}
}

// ---------------------------------------------------------------------------
// all
// ---------------------------------------------------------------------------

func TestAllCommand_RunsBothSteps(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, sampleArtifact)
	writeDataset(t, dir)

	out, _, err := runCLI(t, dir, "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Model Performance Comparison (Validation Set)")
	for _, name := range storyPlots {
		assert.FileExists(t, filepath.Join(dir, "artifacts", "plots", name))
	}
}

func TestAllCommand_ReportFailureDoesNotBlockPlots(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, `{invalid`)
	writeDataset(t, dir)

	_, _, err := runCLI(t, dir, "all")
	require.Error(t, err)
	assert.Equal(t, ExitError, exitCode(err))
	for _, name := range storyPlots {
		assert.FileExists(t, filepath.Join(dir, "artifacts", "plots", name))
	}
}

func TestAllCommand_MissingArtifactStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	_, errOut, err := runCLI(t, dir, "all")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Run the pipeline first")
}
