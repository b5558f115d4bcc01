// Package plan loads batch plans: declarative YAML files describing a set of
// contract calls to execute atomically through the batch helper. Plans use a
// Kubernetes-style envelope (apiVersion, kind, metadata, spec) so a directory
// of them stays greppable and self-describing.
package plan

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/gas"
)

// SupportedAPIVersion is the only apiVersion this build understands.
const SupportedAPIVersion = "txforge/v1"

// SupportedKind is the only resource kind this build understands.
const SupportedKind = "BatchPlan"

// BatchPlan is one YAML document describing an atomic batch.
type BatchPlan struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata identifies a plan.
type Metadata struct {
	Name        string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// Spec is the desired batch: which calls to make, which tokens the helper
// may need to sweep back, and optional per-plan gas and deadline overrides.
type Spec struct {
	Tokens   []string `yaml:"tokens,omitempty"`
	Calls    []Call   `yaml:"calls"`
	Gas      *Gas     `yaml:"gas,omitempty"`
	Deadline string   `yaml:"deadline,omitempty"`
}

// Call is one sub-call of the batch. Calldata is hex, 0x prefix optional.
// Sub-calls cannot carry value; the helper forwards none.
type Call struct {
	Target   string `yaml:"target"`
	Calldata string `yaml:"calldata,omitempty"`
}

// Gas overrides the configured gas strategy for this plan only. Amounts are
// gwei strings, interval is Go duration syntax.
type Gas struct {
	Strategy    string `yaml:"strategy,omitempty"`
	Price       string `yaml:"price,omitempty"`
	Initial     string `yaml:"initial,omitempty"`
	Increment   string `yaml:"increment,omitempty"`
	Coefficient string `yaml:"coefficient,omitempty"`
	Interval    string `yaml:"interval,omitempty"`
	MaxPrice    string `yaml:"maxPrice,omitempty"`
}

// Tokens returns the sweep-token addresses of the plan.
func (p *BatchPlan) Tokens() ([]common.Address, error) {
	tokens := make([]common.Address, 0, len(p.Spec.Tokens))
	for i, raw := range p.Spec.Tokens {
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("spec.tokens[%d]: %q is not a hex address", i, raw)
		}
		tokens = append(tokens, common.HexToAddress(raw))
	}
	return tokens, nil
}

// Invocations returns the plan's calls as chain invocations in document
// order.
func (p *BatchPlan) Invocations() ([]chain.Invocation, error) {
	invs := make([]chain.Invocation, 0, len(p.Spec.Calls))
	for i, call := range p.Spec.Calls {
		if !common.IsHexAddress(call.Target) {
			return nil, fmt.Errorf("spec.calls[%d].target: %q is not a hex address", i, call.Target)
		}
		calldata, err := decodeCalldata(call.Calldata)
		if err != nil {
			return nil, fmt.Errorf("spec.calls[%d].calldata: %w", i, err)
		}
		invs = append(invs, chain.NewInvocation(common.HexToAddress(call.Target), calldata))
	}
	return invs, nil
}

// Strategy builds the plan's gas strategy override, or returns (nil, nil)
// when the plan does not override gas.
func (p *BatchPlan) Strategy() (gas.Strategy, error) {
	if p.Spec.Gas == nil {
		return nil, nil
	}
	g := p.Spec.Gas
	return gas.StrategyConfig{
		Kind:        g.Strategy,
		Price:       g.Price,
		Initial:     g.Initial,
		Increment:   g.Increment,
		Coefficient: g.Coefficient,
		Interval:    g.Interval,
		MaxPrice:    g.MaxPrice,
	}.Build()
}

func decodeCalldata(raw string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if trimmed == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}
