package rules

import (
	"fmt"
	"strings"
)

// Status is the outcome of a single rule.
type Status int

const (
	Indeterminate Status = iota
	Pass
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "indeterminate"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pass":
		*s = Pass
	case "fail":
		*s = Fail
	case "indeterminate":
		*s = Indeterminate
	default:
		return fmt.Errorf("unknown rule status %q", string(b))
	}
	return nil
}

// Name identifies a rule.
type Name string

const (
	MarketCap      Name = "market_cap"
	PE             Name = "pe"
	Dividends      Name = "dividends"
	EarningsGrowth Name = "earnings_growth"
	PB             Name = "pb"
	DebtEquity     Name = "debt_equity"
	WorkingCapital Name = "working_capital"
	CurrentRatio   Name = "current_ratio"
)

// Gate lists the rules whose conjunction decides qualification.
// Dividends, earnings growth and current ratio are reported only.
var Gate = []Name{PE, PB, DebtEquity, WorkingCapital}

// Order is the order rules are evaluated and reported in.
var Order = []Name{PE, Dividends, EarningsGrowth, PB, DebtEquity, WorkingCapital, CurrentRatio}

// Observation is one input value a rule looked at. A nil Value was not reported.
type Observation struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Limit is a bound pair; nil means unbounded on that side.
type Limit struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (l Limit) String() string {
	switch {
	case l.Min != nil && l.Max != nil:
		return fmt.Sprintf("[%g, %g]", *l.Min, *l.Max)
	case l.Min != nil:
		return fmt.Sprintf(">= %g", *l.Min)
	case l.Max != nil:
		return fmt.Sprintf("<= %g", *l.Max)
	default:
		return ""
	}
}

// Result is the evaluation of one rule. Limits are the configured bounds;
// Effective are the bounds actually compared against after industry overrides.
type Result struct {
	Rule      Name          `json:"rule"`
	Status    Status        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Observed  []Observation `json:"observed"`
	Limits    Limit         `json:"limits"`
	Effective Limit         `json:"effective"`
}

// Value returns the named observation.
func (r Result) Value(name string) *float64 {
	for _, o := range r.Observed {
		if o.Name == name {
			return o.Value
		}
	}
	return nil
}

// Outcome is the overall decision for a symbol.
type Outcome string

const (
	Qualified    Outcome = "qualified"
	Disqualified Outcome = "disqualified"
	TooSmall     Outcome = "too_small"
)

// Verdict is the full evaluation of one symbol.
// When Outcome is TooSmall, Rules is empty: nothing beyond the market cap gate ran.
type Verdict struct {
	Symbol    string   `json:"symbol"`
	Industry  string   `json:"industry,omitempty"`
	Outcome   Outcome  `json:"outcome"`
	Reason    string   `json:"reason,omitempty"`
	MarketCap Result   `json:"market_cap"`
	Rules     []Result `json:"rules,omitempty"`
}

// Qualified reports whether every gate rule passed.
func (v Verdict) Qualified() bool { return v.Outcome == Qualified }

// Rule returns the result for name, if it was evaluated.
func (v Verdict) Rule(name Name) (Result, bool) {
	if name == MarketCap {
		return v.MarketCap, v.MarketCap.Rule != ""
	}
	for _, r := range v.Rules {
		if r.Rule == name {
			return r, true
		}
	}
	return Result{}, false
}

// Aggregate is the conjunction of the gate rules over results.
// A missing or indeterminate gate rule never passes.
func Aggregate(results []Result) bool {
	for _, name := range Gate {
		found := false
		for _, r := range results {
			if r.Rule != name {
				continue
			}
			found = true
			if r.Status != Pass {
				return false
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// failedGates describes every gate rule that did not pass, e.g. "pe fail, pb indeterminate".
func failedGates(results []Result) string {
	var parts []string
	for _, name := range Gate {
		for _, r := range results {
			if r.Rule == name && r.Status != Pass {
				parts = append(parts, fmt.Sprintf("%s %s", name, r.Status))
			}
		}
	}
	return strings.Join(parts, ", ")
}
