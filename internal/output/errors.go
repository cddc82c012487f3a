package output

import (
	"fmt"

	"github.com/fatih/color"
)

// Severity controls how a CLIError is presented.
type Severity int

const (
	SeverityError Severity = iota
	// SeverityWarning marks conditions that skip work without failing the run.
	SeverityWarning
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	Severity   Severity
	Err        error
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Summary, e.Err)
	}
	return e.Summary
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if e.Severity == SeverityWarning {
		p.Warning("%s", e.Summary)
	} else {
		p.Error("%s", e.Summary)
	}
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail) //nolint:errcheck
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  %s\n", p.Paint("Suggestion: "+e.Suggestion, color.FgCyan)) //nolint:errcheck
	}
}
