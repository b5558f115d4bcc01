package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/altuslabsxyz/txforge/internal/output"
	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/engine"
)

type waitResult struct {
	receipt *chain.Receipt
	err     error
}

// awaitOutcome blocks until h resolves. On an interactive terminal it
// narrates state changes and fee bumps on a status line while waiting.
func awaitOutcome(ctx context.Context, h *engine.Handle) (*chain.Receipt, error) {
	if IsJSONMode() || !term.IsTerminal(int(os.Stderr.Fd())) {
		return h.Wait(ctx)
	}

	results := make(chan waitResult, 1)
	go func() {
		receipt, err := h.Wait(ctx)
		results <- waitResult{receipt, err}
	}()

	spin := output.NewStatusSpinner()
	spin.Start(statusLine(h))
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case res := <-results:
			spin.Stop()
			return res.receipt, res.err
		case <-ticker.C:
			if line := statusLine(h); line != last {
				spin.Update(line)
				last = line
			}
		}
	}
}

// statusLine summarizes a handle for the spinner: state, active hash, and
// how many replacements have gone out.
func statusLine(h *engine.Handle) string {
	line := fmt.Sprintf("%s  %s", h.State(), h.ActiveHash().Hex())
	if n := len(h.Attempts()); n > 1 {
		line += fmt.Sprintf("  (%d bumps)", n-1)
	}
	return line
}

// printOutcome reports a mined transaction. Failed submissions never reach
// this; the error handler renders them.
func printOutcome(h *engine.Handle, receipt *chain.Receipt) {
	if IsJSONMode() {
		result := map[string]interface{}{
			"id":       h.ID().String(),
			"hash":     h.ActiveHash().Hex(),
			"nonce":    h.Nonce(),
			"state":    h.State().String(),
			"attempts": len(h.Attempts()),
		}
		if receipt != nil {
			result["block"] = receipt.BlockNumber
			result["gas_used"] = receipt.GasUsed
			result["success"] = receipt.Success
		}
		_ = output.PrintJSON(result)
		return
	}

	if receipt == nil {
		output.Success("Transaction resolved: %s", h.State())
		return
	}

	output.Success("Transaction mined in block %d", receipt.BlockNumber)
	output.DefaultLogger.Println("  Hash:     %s", receipt.TxHash.Hex())
	output.DefaultLogger.Println("  Gas used: %d", receipt.GasUsed)
	if n := len(h.Attempts()); n > 1 {
		output.DefaultLogger.Println("  Attempts: %d (%d superseded)", n, n-1)
	}
}
