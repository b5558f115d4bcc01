package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Linear starts at an initial price and adds a fixed increment for every full
// interval the transaction has been waiting, up to an optional cap.
type Linear struct {
	initial    *big.Int
	increaseBy *big.Int
	every      time.Duration
	maxPrice   *big.Int
}

// NewLinear returns a strategy starting at initial wei and rising by
// increaseBy wei every interval.
func NewLinear(initial, increaseBy *big.Int, every time.Duration) *Linear {
	return &Linear{
		initial:    new(big.Int).Set(initial),
		increaseBy: new(big.Int).Set(increaseBy),
		every:      every,
	}
}

// WithMaxPrice caps the bid at max wei.
func (l *Linear) WithMaxPrice(max *big.Int) *Linear {
	l.maxPrice = new(big.Int).Set(max)
	return l
}

// PriceAt returns initial + floor(elapsed/every) * increaseBy, capped.
func (l *Linear) PriceAt(_ context.Context, _ chain.Node, elapsed time.Duration) (*big.Int, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	steps := big.NewInt(int64(elapsed / l.every))
	price := new(big.Int).Mul(l.increaseBy, steps)
	price.Add(price, l.initial)

	if l.maxPrice != nil && price.Cmp(l.maxPrice) > 0 {
		price.Set(l.maxPrice)
	}
	return price, nil
}

func (l *Linear) validate() error {
	if l.initial.Sign() <= 0 {
		return fmt.Errorf("linear gas strategy: initial price must be positive, got %s", l.initial)
	}
	if l.increaseBy.Sign() <= 0 {
		return fmt.Errorf("linear gas strategy: increment must be positive, got %s", l.increaseBy)
	}
	if l.every <= 0 {
		return fmt.Errorf("linear gas strategy: interval must be positive, got %s", l.every)
	}
	return nil
}

// DefaultCoefficient is the default geometric multiplier per interval. 12.5%
// clears the replacement floor of every mainstream node implementation.
var DefaultCoefficient = sdkmath.LegacyMustNewDecFromStr("1.125")

// Geometric starts at an initial price and multiplies it by a coefficient for
// every full interval the transaction has been waiting, rounding up, with an
// optional absolute cap.
type Geometric struct {
	initial     *big.Int
	every       time.Duration
	coefficient sdkmath.LegacyDec
	maxPrice    *big.Int
}

// NewGeometric returns a strategy starting at initial wei and multiplying by
// DefaultCoefficient every interval.
func NewGeometric(initial *big.Int, every time.Duration) *Geometric {
	return &Geometric{
		initial:     new(big.Int).Set(initial),
		every:       every,
		coefficient: DefaultCoefficient,
	}
}

// WithCoefficient overrides the per-interval multiplier. It must exceed 1.
func (g *Geometric) WithCoefficient(coefficient sdkmath.LegacyDec) *Geometric {
	g.coefficient = coefficient
	return g
}

// WithMaxPrice caps the bid at max wei. Once the cap is reached the bid pins
// there and the replacement cycle stops raising.
func (g *Geometric) WithMaxPrice(max *big.Int) *Geometric {
	g.maxPrice = new(big.Int).Set(max)
	return g
}

// PriceAt returns ceil(initial * coefficient^floor(elapsed/every)), capped.
// Rounding up guarantees the bid rises every interval even from 1 wei.
func (g *Geometric) PriceAt(_ context.Context, _ chain.Node, elapsed time.Duration) (*big.Int, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	if elapsed < g.every {
		return new(big.Int).Set(g.initial), nil
	}

	steps := uint64(elapsed / g.every)
	price := sdkmath.LegacyNewDecFromBigInt(g.initial).Mul(g.coefficient.Power(steps))

	result := price.Ceil().TruncateInt().BigInt()
	if g.maxPrice != nil && result.Cmp(g.maxPrice) > 0 {
		result.Set(g.maxPrice)
	}
	return result, nil
}

func (g *Geometric) validate() error {
	if g.initial.Sign() <= 0 {
		return fmt.Errorf("geometric gas strategy: initial price must be positive, got %s", g.initial)
	}
	if g.every <= 0 {
		return fmt.Errorf("geometric gas strategy: interval must be positive, got %s", g.every)
	}
	if !g.coefficient.GT(sdkmath.LegacyOneDec()) {
		return fmt.Errorf("geometric gas strategy: coefficient must exceed 1, got %s", g.coefficient)
	}
	return nil
}
