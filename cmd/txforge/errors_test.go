package main

import (
	"context"
	"errors"
	"testing"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/engine"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"estimation revert", chain.ErrEstimationRevert, exitRevert},
		{"node unavailable", chain.ErrNodeUnavailable, exitNode},
		{"nonce conflict", chain.ErrNonceConflict, exitNonce},
		{"replacement underpriced", chain.ErrReplaceUnderpriced, exitUnderpriced},
		{"submission rejected", chain.ErrSubmissionRejected, exitRejected},
		{"timed out", chain.ErrTimedOut, exitTimedOut},
		{"mined but reverted", chain.ErrMinedReverted, exitMinedRevert},
		{"context cancelled", context.Canceled, exitCancelled},
		{"monitoring abandoned", engine.ErrAbandoned, exitCancelled},
		{"anything else", errors.New("boom"), exitGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}

			// Staged wrapping must not hide the classification.
			wrapped := chain.WrapError(chain.StageSubmit, "send transaction", tt.err, "")
			if got := exitCodeFor(wrapped); got != tt.want {
				t.Errorf("exitCodeFor(wrapped) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitErrorIsSilent(t *testing.T) {
	err := &exitError{code: exitTimedOut}
	if err.Error() != "" {
		t.Errorf("exitError.Error() = %q, want empty so cobra stays quiet", err.Error())
	}
	if err.ExitCode() != exitTimedOut {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), exitTimedOut)
	}
}
