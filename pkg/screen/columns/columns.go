package columns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/rules"
)

// Cell is one rendered value. Status is set for cells that carry a rule
// outcome so renderers can color them.
type Cell struct {
	Text   string
	Status *rules.Status
	State  batch.State
}

// Def describes one column.
type Def struct {
	Header  string
	Numeric bool
	Resolve func(r batch.Result) Cell
}

// Registry maps column keys to their definitions.
var Registry = map[string]Def{}

func text(f func(r batch.Result) string) func(batch.Result) Cell {
	return func(r batch.Result) Cell { return Cell{Text: f(r)} }
}

func init() {
	Registry["sym"] = Def{Header: "SYM", Resolve: text(func(r batch.Result) string { return r.Stock.Symbol })}
	Registry["name"] = Def{Header: "NAME", Resolve: text(func(r batch.Result) string {
		if r.Data != nil && r.Data.Information.Name != "" {
			return r.Data.Information.Name
		}
		return r.Stock.Description
	})}
	Registry["industry"] = Def{Header: "INDUSTRY", Resolve: text(func(r batch.Result) string {
		if r.Data == nil {
			return ""
		}
		return r.Data.Information.Industry
	})}
	Registry["exchange"] = Def{Header: "EXCHANGE", Resolve: text(func(r batch.Result) string {
		if r.Data != nil && r.Data.Information.Exchange != "" {
			return r.Data.Information.Exchange
		}
		return r.Stock.Exchange
	})}
	Registry["currency"] = Def{Header: "CCY", Resolve: text(func(r batch.Result) string {
		if r.Data != nil && r.Data.Information.Currency != "" {
			return r.Data.Information.Currency
		}
		return r.Stock.Currency
	})}
	Registry["price"] = Def{Header: "PRICE", Numeric: true, Resolve: text(func(r batch.Result) string {
		if r.Data == nil {
			return ""
		}
		return FormatMoney(r.Data.Quote.Current, 2)
	})}
	Registry["mcap"] = Def{Header: "MCAP(M)", Numeric: true, Resolve: text(func(r batch.Result) string {
		if r.Data == nil || r.Data.Information.MarketCap == nil {
			return ""
		}
		return FormatMoney(*r.Data.Information.MarketCap, 0)
	})}
	Registry["state"] = Def{Header: "STATE", Resolve: func(r batch.Result) Cell {
		return Cell{Text: string(r.State), State: r.State}
	}}
	Registry["kind"] = Def{Header: "KIND", Resolve: text(func(r batch.Result) string {
		if r.Err == nil {
			return ""
		}
		return string(r.Kind())
	})}
	Registry["reason"] = Def{Header: "REASON", Resolve: text(batch.Result.Reason)}

	observed("pe", "P/E", rules.PE, "pe")
	observed("pb", "P/B", rules.PB, "pb")
	observed("de", "D/E", rules.DebtEquity, "debt_equity")
	observed("wc", "WC/SH", rules.WorkingCapital, "working_capital_per_share")
	observed("cr", "CR", rules.CurrentRatio, "current_ratio")
	observed("div", "DIV", rules.Dividends, "dividend_per_share")
	observed("div5y", "DIV5Y", rules.Dividends, "dividend_per_share_5y_avg")
	observed("divg5y", "DIVG5Y%", rules.Dividends, "dividend_growth_5y")
	observed("epsg", "EPSG%", rules.EarningsGrowth, "eps_growth")
	observed("epsg5y", "EPSG5Y%", rules.EarningsGrowth, "eps_growth_5y")

	status("mcap_status", "MCAP?", rules.MarketCap)
	status("pe_status", "P/E?", rules.PE)
	status("pb_status", "P/B?", rules.PB)
	status("de_status", "D/E?", rules.DebtEquity)
	status("wc_status", "WC?", rules.WorkingCapital)
	status("cr_status", "CR?", rules.CurrentRatio)
	status("div_status", "DIV?", rules.Dividends)
	status("growth_status", "GROWTH?", rules.EarningsGrowth)

	Registry["pe_limits"] = Def{Header: "P/E LIM", Resolve: limits(rules.PE, false)}
	Registry["pb_limits"] = Def{Header: "P/B LIM", Resolve: limits(rules.PB, false)}
	Registry["pb_effective"] = Def{Header: "P/B EFF", Resolve: limits(rules.PB, true)}
}

// observed registers a column showing one value a rule looked at.
func observed(key, header string, rule rules.Name, value string) {
	Registry[key] = Def{Header: header, Numeric: true, Resolve: func(r batch.Result) Cell {
		res, ok := ruleResult(r, rule)
		if !ok {
			return Cell{}
		}
		v := res.Value(value)
		if v == nil {
			return Cell{Text: "-"}
		}
		return Cell{Text: FormatFloat(*v, 2)}
	}}
}

func status(key, header string, rule rules.Name) {
	Registry[key] = Def{Header: header, Resolve: func(r batch.Result) Cell {
		res, ok := ruleResult(r, rule)
		if !ok {
			return Cell{}
		}
		st := res.Status
		return Cell{Text: st.String(), Status: &st}
	}}
}

func limits(rule rules.Name, effective bool) func(batch.Result) Cell {
	return func(r batch.Result) Cell {
		res, ok := ruleResult(r, rule)
		if !ok {
			return Cell{}
		}
		if effective {
			return Cell{Text: res.Effective.String()}
		}
		return Cell{Text: res.Limits.String()}
	}
}

func ruleResult(r batch.Result, rule rules.Name) (rules.Result, bool) {
	if r.Verdict == nil {
		return rules.Result{}, false
	}
	return r.Verdict.Rule(rule)
}

// Expand resolves column names and set names into column keys. Each entry is either a
// column key or a set name; duplicates keep their first position.
func Expand(names []string) ([]string, error) {
	out := make([]string, 0, 16)
	seen := map[string]struct{}{}
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, item := range names {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if cols, ok := Sets[item]; ok {
			for _, c := range cols {
				add(c)
			}
			continue
		}
		if _, ok := Registry[item]; !ok {
			return nil, &UnknownColumnError{Name: item, Columns: Keys(), Sets: availableSets()}
		}
		add(item)
	}
	if len(out) == 0 {
		return append([]string(nil), Sets[DefaultSet]...), nil
	}
	return out, nil
}

// Value renders column key for r.
func Value(key string, r batch.Result) Cell {
	if d, ok := Registry[key]; ok {
		return d.Resolve(r)
	}
	return Cell{}
}

// Header returns the display header for key.
func Header(key string) string {
	if d, ok := Registry[key]; ok {
		return d.Header
	}
	return strings.ToUpper(key)
}

// Keys lists every registered column key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(Registry))
	for k := range Registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnknownColumnError reports an entry that is neither a column nor a set.
type UnknownColumnError struct {
	Name    string
	Columns []string
	Sets    []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column or set: %s; sets: %s; columns: %s",
		e.Name, strings.Join(e.Sets, ", "), strings.Join(e.Columns, ", "))
}
