package plan

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/gas"
)

// ValidationError is a single field-level problem in a plan.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult collects everything wrong with one plan document.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Error returns a formatted string of all validation errors.
func (r *ValidationResult) Error() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	var errStrs []string
	for _, e := range r.Errors {
		errStrs = append(errStrs, e.Error())
	}
	return strings.Join(errStrs, "; ")
}

// Validator checks BatchPlan documents against structural limits.
type Validator struct {
	MaxCalls        int
	ValidStrategies []string
}

// NewValidator returns a validator with default limits. MaxCalls mirrors the
// point where a batch stops fitting a block's gas target anyway.
func NewValidator() *Validator {
	return &Validator{
		MaxCalls:        64,
		ValidStrategies: []string{gas.StrategyNode, gas.StrategyFixed, gas.StrategyLinear, gas.StrategyGeometric},
	}
}

// Validate checks one plan document and returns every problem found.
func (v *Validator) Validate(p *BatchPlan) *ValidationResult {
	if p == nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "plan", Message: "cannot be nil"}},
		}
	}

	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}
	fail := func(field, format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if p.APIVersion != SupportedAPIVersion {
		fail("apiVersion", "unsupported apiVersion %q, expected %q", p.APIVersion, SupportedAPIVersion)
	}
	if p.Kind != SupportedKind {
		fail("kind", "unsupported kind %q, expected %q", p.Kind, SupportedKind)
	}
	if p.Metadata.Name == "" {
		fail("metadata.name", "is required")
	}

	if len(p.Spec.Calls) == 0 {
		fail("spec.calls", "at least one call is required")
	}
	if v.MaxCalls > 0 && len(p.Spec.Calls) > v.MaxCalls {
		fail("spec.calls", "must not exceed %d calls, got %d", v.MaxCalls, len(p.Spec.Calls))
	}
	for i, call := range p.Spec.Calls {
		if !common.IsHexAddress(call.Target) {
			fail(fmt.Sprintf("spec.calls[%d].target", i), "%q is not a hex address", call.Target)
		}
		raw := strings.TrimPrefix(strings.TrimSpace(call.Calldata), "0x")
		if _, err := hex.DecodeString(raw); err != nil {
			fail(fmt.Sprintf("spec.calls[%d].calldata", i), "invalid hex: %v", err)
		}
	}

	for i, token := range p.Spec.Tokens {
		if !common.IsHexAddress(token) {
			fail(fmt.Sprintf("spec.tokens[%d]", i), "%q is not a hex address", token)
		}
	}

	if p.Spec.Deadline != "" {
		if d, err := time.ParseDuration(p.Spec.Deadline); err != nil {
			fail("spec.deadline", "invalid duration %q", p.Spec.Deadline)
		} else if d <= 0 {
			fail("spec.deadline", "must be positive, got %s", d)
		}
	}

	if p.Spec.Gas != nil {
		v.validateGas(p.Spec.Gas, fail)
	}

	return result
}

func (v *Validator) validateGas(g *Gas, fail func(string, string, ...any)) {
	if g.Strategy != "" {
		known := false
		for _, s := range v.ValidStrategies {
			if g.Strategy == s {
				known = true
				break
			}
		}
		if !known {
			fail("spec.gas.strategy", "must be one of %s, got %q", strings.Join(v.ValidStrategies, ", "), g.Strategy)
		}
	}

	amounts := map[string]string{
		"spec.gas.price":     g.Price,
		"spec.gas.initial":   g.Initial,
		"spec.gas.increment": g.Increment,
		"spec.gas.maxPrice":  g.MaxPrice,
	}
	for field, value := range amounts {
		if value == "" {
			continue
		}
		if _, err := gas.ParseGwei(value); err != nil {
			fail(field, "invalid gwei amount %q: %v", value, err)
		}
	}

	if g.Coefficient != "" {
		coefficient, err := sdkmath.LegacyNewDecFromStr(g.Coefficient)
		if err != nil {
			fail("spec.gas.coefficient", "invalid decimal %q", g.Coefficient)
		} else if !coefficient.GT(sdkmath.LegacyOneDec()) {
			fail("spec.gas.coefficient", "must be greater than 1, got %s", g.Coefficient)
		}
	}

	if g.Interval != "" {
		if d, err := time.ParseDuration(g.Interval); err != nil {
			fail("spec.gas.interval", "invalid duration %q", g.Interval)
		} else if d <= 0 {
			fail("spec.gas.interval", "must be positive, got %s", d)
		}
	}
}

// ValidateInvariants performs validation and returns a plain error.
func (v *Validator) ValidateInvariants(p *BatchPlan) error {
	result := v.Validate(p)
	if !result.Valid {
		return fmt.Errorf("validation errors: %s", result.Error())
	}
	return nil
}

// FormatValidationErrors returns a kubectl-style error message.
func FormatValidationErrors(result *ValidationResult, filename string) string {
	if result.Valid {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("error: error validating %q:\n", filename))
	for _, err := range result.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
