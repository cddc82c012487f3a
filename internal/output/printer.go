// Package output provides CLI output formatting utilities
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors when the output is a terminal (default)
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors for w based on mode and
// environment.
func ResolveColors(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return IsTerminal(w)
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing to out and err.
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

// Err returns the diagnostic writer.
func (p *Printer) Err() io.Writer { return p.err }

// UseColors reports whether colored output is enabled.
func (p *Printer) UseColors() bool { return p.useColors }

// Paint returns text wrapped in the given color attributes when colors are on.
func (p *Printer) Paint(text string, attrs ...color.Attribute) string {
	if !p.useColors {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Heading prints a bold section title.
func (p *Printer) Heading(title string) {
	fmt.Fprintf(p.out, "\n%s\n", p.Paint(title, color.Bold)) //nolint:errcheck
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.Paint(fmt.Sprintf(format, args...), color.FgCyan)) //nolint:errcheck
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		fmt.Fprintln(p.out, p.Paint("✓ "+fmt.Sprintf(format, args...), color.FgGreen)) //nolint:errcheck
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...) //nolint:errcheck
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		fmt.Fprintln(p.err, p.Paint("⚠ "+fmt.Sprintf(format, args...), color.FgYellow, color.Bold)) //nolint:errcheck
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...) //nolint:errcheck
}

// Error prints an error message
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		fmt.Fprintln(p.err, p.Paint("✗ "+fmt.Sprintf(format, args...), color.FgRed, color.Bold)) //nolint:errcheck
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...) //nolint:errcheck
}
