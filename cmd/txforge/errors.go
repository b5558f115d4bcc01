package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/engine"
)

// Exit codes per error class. Scripts branch on these without parsing stderr.
const (
	exitGeneral     = 1
	exitUsage       = 2
	exitRevert      = 3
	exitNode        = 4
	exitRejected    = 5
	exitTimedOut    = 6
	exitMinedRevert = 7
	exitUnderpriced = 8
	exitNonce       = 9
	exitCancelled   = 130
)

// exitCoder is implemented by errors that carry an explicit process exit
// code. main inspects it after Execute returns.
type exitCoder interface {
	ExitCode() int
}

// exitError is a printed-and-classified error. Its message is empty so
// cobra does not print it again; main only reads the exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }
func (e *exitError) ExitCode() int { return e.code }

// exitCodeFor maps the submission error taxonomy to process exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, chain.ErrEstimationRevert):
		return exitRevert
	case errors.Is(err, chain.ErrNodeUnavailable):
		return exitNode
	case errors.Is(err, chain.ErrNonceConflict):
		return exitNonce
	case errors.Is(err, chain.ErrReplaceUnderpriced):
		return exitUnderpriced
	case errors.Is(err, chain.ErrSubmissionRejected):
		return exitRejected
	case errors.Is(err, chain.ErrTimedOut):
		return exitTimedOut
	case errors.Is(err, chain.ErrMinedReverted):
		return exitMinedRevert
	case errors.Is(err, context.Canceled), errors.Is(err, engine.ErrAbandoned):
		return exitCancelled
	default:
		return exitGeneral
	}
}

// handleCommandError renders an error for the terminal and converts it into
// a silent exitError carrying the taxonomy exit code.
//
// Usage in command handlers:
//
//	outcome, err := eng.SubmitAndWait(ctx, inv, opts)
//	if err != nil {
//	    return handleCommandError(cmd, err)
//	}
func handleCommandError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	// A TxError already embeds its hint in Error(); avoid printing it twice.
	var txErr *chain.TxError
	if errors.As(err, &txErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", txErr)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := chain.HintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "\nHint: %s\n", hint)
		}
	}

	// The message is already on stderr; keep cobra quiet.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return &exitError{code: exitCodeFor(err)}
}

// usageError reports a bad invocation: the message prints alongside the
// command's usage text and the process exits with the usage code.
func usageError(cmd *cobra.Command, format string, args ...any) error {
	fmt.Fprintf(os.Stderr, "Error: %s\n\n", fmt.Sprintf(format, args...))
	_ = cmd.Usage()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &exitError{code: exitUsage}
}
