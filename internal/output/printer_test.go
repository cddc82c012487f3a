package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/olekukonko/tablewriter/tw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColors(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ResolveColors(ColorAlways, &buf))
	assert.False(t, ResolveColors(ColorNever, &buf))
	assert.False(t, ResolveColors(ColorAuto, &buf), "a buffer is never a terminal")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(ColorAuto, &buf))
}

func TestPrinter_PlainMessages(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Info("loaded %d models", 3)
	p.Success("wrote %s", "a.png")
	p.Warning("skipped")
	p.Error("failed %s", "b.png")

	assert.Equal(t, "loaded 3 models\n[OK] wrote a.png\n", out.String())
	assert.Equal(t, "[WARN] skipped\n[ERROR] failed b.png\n", errOut.String())
}

func TestPrinter_Paint(t *testing.T) {
	plain := NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, false)
	assert.Equal(t, "BEST", plain.Paint("BEST"))

	colored := NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, true)
	painted := colored.Paint("BEST")
	assert.Contains(t, painted, "BEST")
	assert.Contains(t, painted, "\x1b[")
}

func TestFormatError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	cause := errors.New("open artifacts/latest_run.json: no such file or directory")
	p.FormatError(&CLIError{
		Summary:    "artifacts/latest_run.json not found",
		Detail:     cause.Error(),
		Suggestion: "Run the pipeline first",
		Err:        cause,
	})

	got := errOut.String()
	assert.Contains(t, got, "[ERROR] artifacts/latest_run.json not found")
	assert.Contains(t, got, "  Cause: open artifacts/latest_run.json")
	assert.Contains(t, got, "  Suggestion: Run the pipeline first")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.FormatError(&CLIError{Summary: "nothing to report", Severity: SeverityWarning})
	assert.Equal(t, "[WARN] nothing to report\n", errOut.String())
}

func TestCLIError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := &CLIError{Summary: "wrapped", Err: sentinel}
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "wrapped: sentinel", err.Error())
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, StyleRounded, []string{"Rank", "Model"}, tw.AlignCenter, tw.AlignLeft)
	table.AddRow([]string{"1", "xgboost"})
	table.AddRow([]string{"2", "random_forest"})
	require.NoError(t, table.Render())

	got := buf.String()
	assert.Contains(t, got, "Rank")
	assert.Contains(t, got, "xgboost")
	assert.Contains(t, got, "random_forest")
}
