package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/modelreport/internal/output"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Everything requested was produced
	ExitPartial = 1 // Some plots failed, the rest were written
	ExitError   = 2 // Configuration or runtime error
)

// PartialFailureError indicates that plot generation ran to completion,
// but one or more views could not be written.
type PartialFailureError struct {
	Failed int
	Total  int
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d of %d plots failed", e.Failed, e.Total)
}

func main() {
	if err := execute(); err != nil {
		printer := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(output.ColorAuto, os.Stderr))
		reportError(printer, err)
		os.Exit(exitCode(err))
	}
}

// reportError prints every CLIError in err with its remediation hints and
// any other error as a plain line.
func reportError(p *output.Printer, err error) {
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range errs.Unwrap() {
			reportError(p, e)
		}
		return
	}
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		p.FormatError(cliErr)
		return
	}
	p.Error("%v", err)
}

// exitCode maps err to a process exit code. Joined errors take the most
// severe code of their parts.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		code := ExitSuccess
		for _, e := range errs.Unwrap() {
			code = max(code, exitCode(e))
		}
		return code
	}
	var partial *PartialFailureError
	if errors.As(err, &partial) {
		return ExitPartial
	}
	return ExitError
}
