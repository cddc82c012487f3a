package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spboyer/modelreport/internal/models"
	"github.com/spboyer/modelreport/internal/output"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects how the report is written.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: must be table, json, markdown, or html", s)
	}
}

const (
	LeaderboardTitle = "Model Performance Comparison (Validation Set)"
	breakdownTitle   = "Per-Class F1 Score (Top %d Models)"
)

// Options configures a Renderer.
type Options struct {
	Format Format
	// TopN is the number of models in the per-class breakdown.
	TopN int
	// NameWidth truncates model names wider than this many cells. Zero
	// disables truncation.
	NameWidth int
	// RunID and Timestamp identify the run the metrics came from. Either
	// may be empty.
	RunID     string
	Timestamp string
}

// Renderer writes the leaderboard and per-class views of a ranked run.
// It never modifies the run.
type Renderer struct {
	printer *output.Printer
	opts    Options
}

func NewRenderer(p *output.Printer, opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultBreakdownSize
	}
	return &Renderer{printer: p, opts: opts}
}

// Report is the serialized form of both views.
type Report struct {
	Title       string           `json:"title"`
	RunID       string           `json:"run_id,omitempty"`
	Timestamp   string           `json:"timestamp,omitempty"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
	Breakdown   []BreakdownRow   `json:"per_class_f1"`
}

// Build produces both views for run, applying name truncation.
func (r *Renderer) Build(run models.ComparisonRun) Report {
	board := BuildLeaderboard(run)
	for i := range board {
		board[i].Model = r.displayName(board[i].Model)
	}
	breakdown := BuildBreakdown(run, r.opts.TopN)
	for i := range breakdown {
		breakdown[i].Model = r.displayName(breakdown[i].Model)
	}
	return Report{
		Title:       LeaderboardTitle,
		RunID:       r.opts.RunID,
		Timestamp:   r.opts.Timestamp,
		Leaderboard: board,
		Breakdown:   breakdown,
	}
}

// Run describes the source run as "<id> (<timestamp>)", dropping whichever
// part is unknown. It is empty when neither is known.
func (r Report) Run() string {
	switch {
	case r.RunID != "" && r.Timestamp != "":
		return fmt.Sprintf("%s (%s)", r.RunID, r.Timestamp)
	case r.RunID != "":
		return r.RunID
	default:
		return r.Timestamp
	}
}

// Render writes the report in the configured format.
func (r *Renderer) Render(run models.ComparisonRun) error {
	report := r.Build(run)
	w := r.printer.Out()

	switch r.opts.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, r.markdown(report))
		return err
	case FormatHTML:
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		if err := md.Convert([]byte(r.markdown(report)), w); err != nil {
			return fmt.Errorf("failed to convert report to html: %w", err)
		}
		return nil
	default:
		return r.renderTables(run, report)
	}
}

func (r *Renderer) renderTables(run models.ComparisonRun, report Report) error {
	p := r.printer

	p.Heading("🏆 " + report.Title)
	if run := report.Run(); run != "" {
		p.Info("Run: %s", run)
	}
	board := output.NewTable(p.Out(), output.StyleRounded, LeaderboardHeaders,
		tw.AlignCenter, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft)
	for _, row := range report.Leaderboard {
		cells := row.Cells()
		if row.IsBest() {
			cells[4] = p.Paint(BestMarker, color.FgGreen, color.Bold)
		}
		cells[5] = p.Paint(cells[5], color.Faint)
		board.AddRow(cells)
	}
	if err := board.Render(); err != nil {
		return fmt.Errorf("failed to render leaderboard: %w", err)
	}

	if summary := FormatSummary(run); summary != "" {
		fmt.Fprint(p.Out(), summary) //nolint:errcheck
	}

	p.Heading("🔍 " + fmt.Sprintf(breakdownTitle, r.opts.TopN))
	breakdown := output.NewTable(p.Out(), output.StyleSimple, BreakdownHeaders,
		tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight)
	for _, row := range report.Breakdown {
		breakdown.AddRow(row.Cells())
	}
	if err := breakdown.Render(); err != nil {
		return fmt.Errorf("failed to render per-class breakdown: %w", err)
	}
	return nil
}

func (r *Renderer) markdown(report Report) string {
	var b strings.Builder

	b.WriteString("## " + report.Title + "\n\n")
	if run := report.Run(); run != "" {
		b.WriteString("Run: " + markdownEscaper.Replace(run) + "\n\n")
	}
	writeMarkdownTable(&b, LeaderboardHeaders, len(report.Leaderboard), func(i int) []string {
		cells := escapeCells(report.Leaderboard[i].Cells())
		if report.Leaderboard[i].IsBest() {
			cells[4] = "**" + BestMarker + "**"
		}
		return cells
	})

	b.WriteString("\n### " + fmt.Sprintf(breakdownTitle, r.opts.TopN) + "\n\n")
	writeMarkdownTable(&b, BreakdownHeaders, len(report.Breakdown), func(i int) []string {
		return escapeCells(report.Breakdown[i].Cells())
	})

	return b.String()
}

func writeMarkdownTable(b *strings.Builder, headers []string, n int, row func(int) []string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
	for i := 0; i < n; i++ {
		b.WriteString("| " + strings.Join(row(i), " | ") + " |\n")
	}
}

// markdownEscaper backslash-escapes Markdown metacharacters so cell text is
// rendered literally.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"~", `\~`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
)

func escapeCells(cells []string) []string {
	for i, c := range cells {
		cells[i] = markdownEscaper.Replace(c)
	}
	return cells
}

func (r *Renderer) displayName(name string) string {
	if r.opts.NameWidth <= 0 || runewidth.StringWidth(name) <= r.opts.NameWidth {
		return name
	}
	return runewidth.Truncate(name, r.opts.NameWidth, "…")
}
