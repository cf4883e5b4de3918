package matcher

import (
	"fmt"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/shopspring/decimal"
)

// Config holds the scoring knobs. All of them can be overridden from the
// environment through infra/config.
type Config struct {
	AmountTolerancePct decimal.Decimal
	AmountToleranceAbs decimal.Decimal
	DateWindowDays     int
	AmountWeight       float64
	DateWeight         float64
	ReferenceBonus     float64
	HighThreshold      float64
	MediumThreshold    float64
}

func DefaultConfig() Config {
	return Config{
		AmountTolerancePct: decimal.RequireFromString(consts.DefaultAmountTolerancePct),
		AmountToleranceAbs: decimal.RequireFromString(consts.DefaultAmountToleranceAbs),
		DateWindowDays:     consts.DefaultDateWindowDays,
		AmountWeight:       0.5,
		DateWeight:         0.3,
		ReferenceBonus:     0.15,
		HighThreshold:      0.85,
		MediumThreshold:    0.60,
	}
}

func (c Config) Validate() error {
	if c.AmountTolerancePct.IsNegative() || c.AmountToleranceAbs.IsNegative() {
		return fmt.Errorf("amount tolerances must not be negative")
	}
	if c.DateWindowDays < 0 {
		return fmt.Errorf("date window must not be negative")
	}
	if c.AmountWeight < 0 || c.DateWeight < 0 || c.AmountWeight+c.DateWeight == 0 {
		return fmt.Errorf("amount and date weights must be non-negative and not both zero")
	}
	if c.ReferenceBonus < 0 || c.ReferenceBonus > 1 {
		return fmt.Errorf("reference bonus must be within [0, 1]")
	}
	if c.MediumThreshold <= 0 || c.HighThreshold > 1 || c.MediumThreshold > c.HighThreshold {
		return fmt.Errorf("thresholds must satisfy 0 < medium <= high <= 1")
	}
	return nil
}

// Tolerance is the largest amount difference still considered a candidate:
// a percentage of the amount, but never less than the absolute cap.
func (c Config) Tolerance(amount decimal.Decimal) decimal.Decimal {
	pct := amount.Abs().Mul(c.AmountTolerancePct)
	if pct.GreaterThan(c.AmountToleranceAbs) {
		return pct
	}
	return c.AmountToleranceAbs
}

func (c Config) TierOf(score float64) string {
	switch {
	case score >= c.HighThreshold:
		return consts.ConfidenceTierHigh
	case score >= c.MediumThreshold:
		return consts.ConfidenceTierMedium
	}
	return consts.ConfidenceTierLow
}
