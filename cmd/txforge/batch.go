package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/txforge/internal/output"
	"github.com/altuslabsxyz/txforge/internal/plan"
	"github.com/altuslabsxyz/txforge/pkg/batch"
	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/engine"
)

// batchJob is one helper transaction ready to submit: where it came from,
// what it calls, and the options it runs under.
type batchJob struct {
	name   string
	tokens []common.Address
	invs   []chain.Invocation
	opts   engine.SubmitOptions
}

func NewBatchCmd() *cobra.Command {
	var (
		calls  []string
		tokens []string
		file   string
		async  bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Execute several calls atomically through the batch helper",
		Long: `Batch packs sub-calls into a single transaction executed by a
pre-deployed helper contract. The helper runs them in order and reverts the
whole transaction if any fails, so either every call lands or none do.

Sub-calls come from repeated --call flags or from BatchPlan YAML files
(--file takes a file, a multi-document file, or a directory). Each plan is
one transaction; several plans are submitted concurrently and awaited
together.

Assets the sub-calls spend must be approved to the helper beforehand. List
them with --token (or spec.tokens in a plan) so the helper may pull them
while executing. Sub-calls cannot carry value; the helper forwards none.`,
		Example: `  # Two calls, one atomic transaction
  txforge batch \
    --call 0xToken00000000000000000000000000000000dead:0xa9059cbb... \
    --call 0xVault00000000000000000000000000000000beef:0xd0e30db0 \
    --helper 0xHe1per0000000000000000000000000000000001

  # Every plan in a directory, one transaction each
  txforge batch --file plans/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := cfg.Validate(); err != nil {
				return handleCommandError(cmd, err)
			}

			if file != "" && (len(calls) > 0 || len(tokens) > 0) {
				return usageError(cmd, "--file and --call/--token are mutually exclusive")
			}
			if file == "" && len(calls) == 0 {
				return usageError(cmd, "nothing to execute: pass --call or --file")
			}

			helperAddr := cfg.Helper.Value
			if helperAddr == "" {
				return usageError(cmd, "no helper contract configured: pass --helper or set helper in config.toml")
			}
			if !common.IsHexAddress(helperAddr) {
				return usageError(cmd, "helper %q is not a hex address", helperAddr)
			}
			executor := batch.NewExecutor(common.HexToAddress(helperAddr))

			baseOpts, err := submitOptions(cfg, 0, false)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			var jobs []batchJob
			if file != "" {
				jobs, err = jobsFromPlans(file, baseOpts)
			} else {
				jobs, err = jobsFromFlags(calls, tokens, baseOpts)
			}
			if err != nil {
				var invalid *plan.InvalidPlanError
				if errors.As(err, &invalid) {
					cmd.SilenceUsage = true
					fmt.Fprint(os.Stderr, plan.FormatValidationErrors(invalid.Result, invalid.Source))
					return fmt.Errorf("plan validation failed")
				}
				return handleCommandError(cmd, err)
			}

			if !yes && !IsJSONMode() && term.IsTerminal(int(os.Stdin.Fd())) {
				printBatchSummary(executor.Helper(), jobs)
				confirmed, perr := output.ConfirmPrompt(fmt.Sprintf("Submit %d transaction(s)?", len(jobs)))
				if perr != nil {
					return handleCommandError(cmd, perr)
				}
				if !confirmed {
					output.Info("Batch cancelled.")
					return nil
				}
			}

			sgr, err := loadSigner(cmd, cfg)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			ctx := cmd.Context()
			eng, client, err := buildEngine(ctx, cfg, sgr)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			defer client.Close()
			defer eng.Close()

			progress := output.NewProgress(len(jobs))
			progress.SetJSONMode(IsJSONMode())
			handles := make([]*engine.Handle, len(jobs))
			for i, job := range jobs {
				progress.Stagef("Submitting %s", job.name)
				h, serr := executor.Execute(ctx, eng, job.tokens, job.invs, job.opts)
				if serr != nil {
					return handleCommandError(cmd, fmt.Errorf("%s: %w", job.name, serr))
				}
				handles[i] = h
				if !IsJSONMode() {
					output.Info("Submitted %s: %s (nonce %d)", job.name, h.ActiveHash().Hex(), h.Nonce())
				}
			}

			if async {
				return printBatchAsync(jobs, handles)
			}

			outcomes, werr := engine.WaitAll(ctx, handles...)
			printBatchOutcomes(jobs, outcomes)
			if werr != nil {
				// Per-job results are already rendered; just carry the code.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &exitError{code: exitCodeFor(werr)}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&calls, "call", nil, `Sub-call as "to:data[:value]"; repeat for each call, executed in order`)
	cmd.Flags().StringArrayVar(&tokens, "token", nil, "Asset the helper may pull while executing; repeat per token")
	cmd.Flags().StringVar(&file, "file", "", "BatchPlan YAML file or directory of plans")
	cmd.Flags().String("helper", "", "Batch helper contract address")
	cmd.Flags().BoolVar(&async, "async", false, "Print the transaction hashes and exit without waiting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	addKeyFlags(cmd)
	addGasFlags(cmd)

	return cmd
}

// parseCall parses one --call argument of the form to:data[:value]. A value
// part is accepted here and rejected at script encoding, where the helper's
// no-value rule is enforced.
func parseCall(arg string) (chain.Invocation, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 {
		return chain.Invocation{}, fmt.Errorf("invalid --call %q: want to:data[:value]", arg)
	}
	if !common.IsHexAddress(parts[0]) {
		return chain.Invocation{}, fmt.Errorf("invalid --call target %q: not a hex address", parts[0])
	}
	calldata, err := parseCalldata(parts[1])
	if err != nil {
		return chain.Invocation{}, fmt.Errorf("invalid --call %q: %w", arg, err)
	}
	inv := chain.NewInvocation(common.HexToAddress(parts[0]), calldata)
	if len(parts) == 3 && parts[2] != "" {
		amount, aerr := parseAmount(parts[2])
		if aerr != nil {
			return chain.Invocation{}, fmt.Errorf("invalid --call %q: %w", arg, aerr)
		}
		inv.Value = amount
	}
	return inv, nil
}

func jobsFromFlags(calls, tokens []string, baseOpts engine.SubmitOptions) ([]batchJob, error) {
	job := batchJob{name: "batch", opts: baseOpts}
	for _, arg := range calls {
		inv, err := parseCall(arg)
		if err != nil {
			return nil, err
		}
		job.invs = append(job.invs, inv)
	}
	for _, t := range tokens {
		if !common.IsHexAddress(t) {
			return nil, fmt.Errorf("invalid --token %q: not a hex address", t)
		}
		job.tokens = append(job.tokens, common.HexToAddress(t))
	}
	return []batchJob{job}, nil
}

// jobsFromPlans loads BatchPlan documents and turns each into one job,
// applying per-plan gas and deadline overrides on top of the base options.
func jobsFromPlans(path string, baseOpts engine.SubmitOptions) ([]batchJob, error) {
	plans, err := plan.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	jobs := make([]batchJob, 0, len(plans))
	for i := range plans {
		p := &plans[i]
		job := batchJob{name: p.Metadata.Name, opts: baseOpts}

		if job.invs, err = p.Invocations(); err != nil {
			return nil, fmt.Errorf("plan %q: %w", p.Metadata.Name, err)
		}
		if job.tokens, err = p.Tokens(); err != nil {
			return nil, fmt.Errorf("plan %q: %w", p.Metadata.Name, err)
		}

		strategy, serr := p.Strategy()
		if serr != nil {
			return nil, fmt.Errorf("plan %q: %w", p.Metadata.Name, serr)
		}
		if strategy != nil {
			job.opts.Strategy = strategy
		}
		if p.Spec.Deadline != "" {
			d, derr := time.ParseDuration(p.Spec.Deadline)
			if derr != nil {
				return nil, fmt.Errorf("plan %q: invalid deadline: %w", p.Metadata.Name, derr)
			}
			job.opts.Deadline = d
		}

		jobs = append(jobs, job)
	}
	return jobs, nil
}

func printBatchSummary(helper common.Address, jobs []batchJob) {
	output.Bold("Batch")
	output.DefaultLogger.Println("  Helper: %s", helper.Hex())
	for _, job := range jobs {
		output.DefaultLogger.Println("  %s: %d call(s), %d token(s)", job.name, len(job.invs), len(job.tokens))
		for _, inv := range job.invs {
			output.DefaultLogger.Println("    -> %s (%d bytes)", inv.Target.Hex(), len(inv.Calldata))
		}
	}
	output.DefaultLogger.Println("")
}

func printBatchAsync(jobs []batchJob, handles []*engine.Handle) error {
	if IsJSONMode() {
		results := make([]map[string]interface{}, len(handles))
		for i, h := range handles {
			results[i] = map[string]interface{}{
				"name":  jobs[i].name,
				"id":    h.ID().String(),
				"hash":  h.ActiveHash().Hex(),
				"nonce": h.Nonce(),
			}
		}
		return output.PrintJSON(results)
	}
	output.Info("Submitted, not waiting for confirmation.")
	for i, h := range handles {
		output.Info("  %s: %s", jobs[i].name, h.ActiveHash().Hex())
	}
	return nil
}

func printBatchOutcomes(jobs []batchJob, outcomes []engine.Outcome) {
	if IsJSONMode() {
		results := make([]map[string]interface{}, len(outcomes))
		for i, o := range outcomes {
			result := map[string]interface{}{
				"name":     jobs[i].name,
				"id":       o.Handle.ID().String(),
				"hash":     o.Handle.ActiveHash().Hex(),
				"state":    o.Handle.State().String(),
				"attempts": len(o.Handle.Attempts()),
			}
			if o.Receipt != nil {
				result["block"] = o.Receipt.BlockNumber
				result["gas_used"] = o.Receipt.GasUsed
				result["success"] = o.Receipt.Success
			}
			if o.Err != nil {
				result["error"] = o.Err.Error()
			}
			results[i] = result
		}
		_ = output.PrintJSON(results)
		return
	}

	for i, o := range outcomes {
		name := jobs[i].name
		switch {
		case o.Err != nil:
			output.Error("%s: %v", name, o.Err)
		case o.Receipt != nil:
			output.Success("%s mined in block %d (gas used %d)", name, o.Receipt.BlockNumber, o.Receipt.GasUsed)
		default:
			output.Success("%s resolved: %s", name, o.Handle.State())
		}
	}
}
