package rules

import (
	"fmt"
	"strings"
)

// AnalysisConfig is the threshold table shared by every symbol in a run.
// Ratios are plain ratios, growth rates are in percent as Finnhub reports them,
// and market cap is in millions.
type AnalysisConfig struct {
	PELimits            []float64                   `mapstructure:"pe_limits" yaml:"pe_limits" json:"pe_limits"`
	PBLimits            []float64                   `mapstructure:"pb_limits" yaml:"pb_limits" json:"pb_limits"`
	EarningsGrowth5YMin float64                     `mapstructure:"earnings_growth_5y_min" yaml:"earnings_growth_5y_min" json:"earnings_growth_5y_min"`
	DividendPerShareMin float64                     `mapstructure:"dividend_per_share_min" yaml:"dividend_per_share_min" json:"dividend_per_share_min"`
	DividendGrowth5YMin float64                     `mapstructure:"dividend_growth_5y_min" yaml:"dividend_growth_5y_min" json:"dividend_growth_5y_min"`
	CurrentRatioMin     float64                     `mapstructure:"current_ratio_min" yaml:"current_ratio_min" json:"current_ratio_min"`
	DebtEquityMax       float64                     `mapstructure:"debt_equity_max" yaml:"debt_equity_max" json:"debt_equity_max"`
	MarketCapMin        float64                     `mapstructure:"market_cap_min" yaml:"market_cap_min" json:"market_cap_min"`
	IndustryOverrides   map[string]IndustryOverride `mapstructure:"industry_overrides" yaml:"industry_overrides" json:"industry_overrides"`
}

// IndustryOverride scales the upper bounds of the P/B and P/E ranges for one industry.
// A zero multiplier means "no override".
type IndustryOverride struct {
	PBMaxMultiplier float64 `mapstructure:"pb_max_multiplier" yaml:"pb_max_multiplier,omitempty" json:"pb_max_multiplier,omitempty"`
	PEMaxMultiplier float64 `mapstructure:"pe_max_multiplier" yaml:"pe_max_multiplier,omitempty" json:"pe_max_multiplier,omitempty"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool { return r.Min <= v && v <= r.Max }

func (r Range) String() string { return fmt.Sprintf("[%g, %g]", r.Min, r.Max) }

// Thresholds are the limits that apply to one symbol after industry overrides.
// PE and PB keep the configured ranges; EffectivePE and EffectivePB are what
// the rules compare against.
type Thresholds struct {
	Industry            string
	PE                  Range
	EffectivePE         Range
	PB                  Range
	EffectivePB         Range
	EarningsGrowth5YMin float64
	DividendPerShareMin float64
	DividendGrowth5YMin float64
	CurrentRatioMin     float64
	DebtEquityMax       float64
	MarketCapMin        float64
}

// DefaultAnalysis is a conservative value-investing threshold table.
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		PELimits:            []float64{0, 15},
		PBLimits:            []float64{0, 1.5},
		EarningsGrowth5YMin: 3,
		DividendPerShareMin: 0.1,
		DividendGrowth5YMin: 0,
		CurrentRatioMin:     2,
		DebtEquityMax:       1,
		MarketCapMin:        2000,
		IndustryOverrides: map[string]IndustryOverride{
			"Technology": {PBMaxMultiplier: 5},
		},
	}
}

// Validate reports the first malformed threshold.
func (c AnalysisConfig) Validate() error {
	if err := validRange("pe_limits", c.PELimits); err != nil {
		return err
	}
	if err := validRange("pb_limits", c.PBLimits); err != nil {
		return err
	}
	if c.DebtEquityMax < 0 {
		return fmt.Errorf("debt_equity_max must be >= 0, got %g", c.DebtEquityMax)
	}
	if c.MarketCapMin < 0 {
		return fmt.Errorf("market_cap_min must be >= 0, got %g", c.MarketCapMin)
	}
	for industry, o := range c.IndustryOverrides {
		if o.PBMaxMultiplier < 0 || o.PEMaxMultiplier < 0 {
			return fmt.Errorf("industry_overrides.%s: multipliers must be >= 0", industry)
		}
	}
	return nil
}

func validRange(name string, v []float64) error {
	if len(v) != 2 {
		return fmt.Errorf("%s must have exactly two values [min, max], got %d", name, len(v))
	}
	if v[0] > v[1] {
		return fmt.Errorf("%s: min %g is greater than max %g", name, v[0], v[1])
	}
	return nil
}

// Resolve applies the override for industry, if any, and returns the limits
// the rules compare against. Industry names match case-insensitively since
// config keys are lowercased when loaded.
func (c AnalysisConfig) Resolve(industry string) Thresholds {
	t := Thresholds{
		Industry:            industry,
		PE:                  toRange(c.PELimits),
		PB:                  toRange(c.PBLimits),
		EarningsGrowth5YMin: c.EarningsGrowth5YMin,
		DividendPerShareMin: c.DividendPerShareMin,
		DividendGrowth5YMin: c.DividendGrowth5YMin,
		CurrentRatioMin:     c.CurrentRatioMin,
		DebtEquityMax:       c.DebtEquityMax,
		MarketCapMin:        c.MarketCapMin,
	}
	t.EffectivePE, t.EffectivePB = t.PE, t.PB

	if o, ok := c.override(industry); ok {
		if o.PEMaxMultiplier > 0 {
			t.EffectivePE.Max *= o.PEMaxMultiplier
		}
		if o.PBMaxMultiplier > 0 {
			t.EffectivePB.Max *= o.PBMaxMultiplier
		}
	}
	return t
}

func (c AnalysisConfig) override(industry string) (IndustryOverride, bool) {
	if industry == "" {
		return IndustryOverride{}, false
	}
	if o, ok := c.IndustryOverrides[industry]; ok {
		return o, true
	}
	for k, o := range c.IndustryOverrides {
		if strings.EqualFold(k, industry) {
			return o, true
		}
	}
	return IndustryOverride{}, false
}

func toRange(v []float64) Range {
	if len(v) != 2 {
		return Range{}
	}
	return Range{Min: v[0], Max: v[1]}
}
