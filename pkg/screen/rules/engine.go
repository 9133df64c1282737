package rules

import (
	"fmt"
	"strings"

	"github.com/komsit37/screen/pkg/screen/types"
)

// Evaluate screens one symbol. It resolves industry overrides first and then
// runs every rule against the resolved thresholds. The only error is a
// *types.MissingDataError when the market cap gate has nothing to compare.
func Evaluate(cfg AnalysisConfig, data types.StockData) (Verdict, error) {
	return EvaluateWith(cfg.Resolve(data.Information.Industry), data)
}

// EvaluateWith screens one symbol against already resolved thresholds.
func EvaluateWith(t Thresholds, data types.StockData) (Verdict, error) {
	v := Verdict{Symbol: data.Stock.Symbol, Industry: data.Information.Industry}

	v.MarketCap = CheckMarketCap(t, data.Information)
	if v.MarketCap.Status == Indeterminate {
		return v, &types.MissingDataError{Field: "market_cap"}
	}
	if v.MarketCap.Status == Fail {
		v.Outcome = TooSmall
		v.Reason = fmt.Sprintf("market cap %g below minimum %g", *data.Information.MarketCap, t.MarketCapMin)
		return v, nil
	}

	f := data.Financials
	v.Rules = []Result{
		CheckPE(t, f),
		CheckDividends(t, f),
		CheckEarningsGrowth(t, f),
		CheckPB(t, f),
		CheckDebtEquity(t, f),
		CheckWorkingCapital(f, data.Information, data.Quote),
		CheckCurrentRatio(t, f),
	}
	if Aggregate(v.Rules) {
		v.Outcome = Qualified
	} else {
		v.Outcome = Disqualified
		v.Reason = failedGates(v.Rules)
	}
	return v, nil
}

func CheckMarketCap(t Thresholds, info types.CompanyInformation) Result {
	r := Result{
		Rule:      MarketCap,
		Observed:  []Observation{{Name: "market_cap", Value: info.MarketCap}},
		Limits:    Limit{Min: types.Float(t.MarketCapMin)},
		Effective: Limit{Min: types.Float(t.MarketCapMin)},
	}
	return decide(r, 1, func() bool {
		return *info.MarketCap >= t.MarketCapMin
	})
}

func CheckPE(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule:      PE,
		Observed:  []Observation{{Name: "pe", Value: f.PE}},
		Limits:    rangeLimit(t.PE),
		Effective: rangeLimit(t.EffectivePE),
	}
	return decide(r, 1, func() bool {
		return t.EffectivePE.Contains(*f.PE)
	})
}

func CheckDividends(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule: Dividends,
		Observed: []Observation{
			{Name: "dividend_per_share", Value: f.DividendPerShare},
			{Name: "dividend_per_share_5y_avg", Value: f.DividendPerShare5YAvg},
			{Name: "dividend_growth_5y", Value: f.DividendGrowth5Y},
		},
		Limits:    Limit{Min: types.Float(t.DividendPerShareMin)},
		Effective: Limit{Min: types.Float(t.DividendPerShareMin)},
	}
	return decide(r, 3, func() bool {
		return *f.DividendPerShare >= t.DividendPerShareMin &&
			*f.DividendPerShare5YAvg >= t.DividendPerShareMin &&
			*f.DividendGrowth5Y >= t.DividendGrowth5YMin
	})
}

func CheckEarningsGrowth(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule: EarningsGrowth,
		Observed: []Observation{
			{Name: "eps_growth", Value: f.EPSGrowth},
			{Name: "eps_growth_5y", Value: f.EPSGrowth5Y},
		},
		Limits:    Limit{Min: types.Float(t.EarningsGrowth5YMin)},
		Effective: Limit{Min: types.Float(t.EarningsGrowth5YMin)},
	}
	return decide(r, 2, func() bool {
		return *f.EPSGrowth >= 0 && *f.EPSGrowth5Y >= t.EarningsGrowth5YMin
	})
}

// CheckPB reports the configured range in Limits and the industry-adjusted
// range in Effective; only Effective decides the outcome.
func CheckPB(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule:      PB,
		Observed:  []Observation{{Name: "pb", Value: f.PB}},
		Limits:    rangeLimit(t.PB),
		Effective: rangeLimit(t.EffectivePB),
	}
	return decide(r, 1, func() bool {
		return t.EffectivePB.Contains(*f.PB)
	})
}

func CheckDebtEquity(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule:      DebtEquity,
		Observed:  []Observation{{Name: "debt_equity", Value: f.TotalDebtToEquity}},
		Limits:    Limit{Max: types.Float(t.DebtEquityMax)},
		Effective: Limit{Max: types.Float(t.DebtEquityMax)},
	}
	return decide(r, 1, func() bool {
		return *f.TotalDebtToEquity <= t.DebtEquityMax
	})
}

// CheckWorkingCapital requires non-negative working capital per share of at
// least two thirds of the current price. Balance sheet items and shares
// outstanding are both in millions, so the ratio is per share.
func CheckWorkingCapital(f types.CompanyFinancials, info types.CompanyInformation, q types.CompanyQuote) Result {
	r := Result{
		Rule: WorkingCapital,
		Observed: []Observation{
			{Name: "current_assets", Value: f.TotalCurrentAssets},
			{Name: "current_liabilities", Value: f.TotalCurrentLiabilities},
			{Name: "current_long_term_debt", Value: f.CurrentLongTermDebt},
			{Name: "shares_outstanding", Value: info.SharesOutstanding},
			{Name: "price", Value: types.Float(q.Current)},
		},
	}
	if missing := missingFields(r.Observed[:4]); missing != "" {
		r.Reason = "data missing: " + missing
		return r
	}
	shares := *info.SharesOutstanding
	if shares == 0 {
		r.Reason = "data missing: shares_outstanding is zero"
		return r
	}

	wc := (*f.TotalCurrentAssets - *f.TotalCurrentLiabilities) / shares
	floor := 2 * q.Current / 3
	r.Observed = append(r.Observed,
		Observation{Name: "working_capital_per_share", Value: types.Float(wc)},
		Observation{Name: "current_long_term_debt_per_share", Value: types.Float(*f.CurrentLongTermDebt / shares)},
	)
	r.Effective = Limit{Min: types.Float(floor)}
	if wc >= 0 && wc >= floor {
		r.Status = Pass
	} else {
		r.Status = Fail
		r.Reason = fmt.Sprintf("working capital per share %.2f below %.2f", wc, floor)
	}
	return r
}

// CheckCurrentRatio is reported but never part of the gate.
func CheckCurrentRatio(t Thresholds, f types.CompanyFinancials) Result {
	r := Result{
		Rule:      CurrentRatio,
		Observed:  []Observation{{Name: "current_ratio", Value: f.CurrentRatio}},
		Limits:    Limit{Min: types.Float(t.CurrentRatioMin)},
		Effective: Limit{Min: types.Float(t.CurrentRatioMin)},
	}
	return decide(r, 1, func() bool {
		return *f.CurrentRatio >= t.CurrentRatioMin
	})
}

// decide marks r Indeterminate if any of the first n observations is nil,
// otherwise Pass or Fail according to pass.
func decide(r Result, n int, pass func() bool) Result {
	if missing := missingFields(r.Observed[:n]); missing != "" {
		r.Status = Indeterminate
		r.Reason = "data missing: " + missing
		return r
	}
	if pass() {
		r.Status = Pass
		return r
	}
	r.Status = Fail
	r.Reason = fmt.Sprintf("%s outside %s", observedString(r.Observed), r.Effective)
	return r
}

func missingFields(obs []Observation) string {
	var names []string
	for _, o := range obs {
		if o.Value == nil {
			names = append(names, o.Name)
		}
	}
	return strings.Join(names, ", ")
}

func observedString(obs []Observation) string {
	parts := make([]string, 0, len(obs))
	for _, o := range obs {
		if o.Value == nil {
			parts = append(parts, o.Name+"=-")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.2f", o.Name, *o.Value))
	}
	return strings.Join(parts, " ")
}

func rangeLimit(r Range) Limit {
	return Limit{Min: types.Float(r.Min), Max: types.Float(r.Max)}
}
