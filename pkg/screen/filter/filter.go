package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/screen/pkg/screen/types"
)

// Filter decides whether a symbol takes part in a run.
type Filter interface {
	Match(stock types.StockInfo) bool
}

// Parse builds a filter from an expression:
//   - Comma-separated exact symbols: "AAPL,KO"
//   - Glob on the symbol: "BRK.*"
//   - Regex on symbol or description: "/^(BANK|INSUR)/"
//   - Anything else: case-insensitive substring of symbol or description
//
// A leading "!" negates the expression.
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "!") {
		inner, err := Parse(expr[1:])
		if err != nil {
			return nil, err
		}
		return Not{inner: inner}, nil
	}
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.ToUpper(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: strings.ToUpper(expr)}, nil
	}
	return SubstrCI{needle: strings.ToLower(expr)}, nil
}

type Always bool

func (a Always) Match(types.StockInfo) bool { return bool(a) }

type Not struct{ inner Filter }

func (n Not) Match(s types.StockInfo) bool { return !n.inner.Match(s) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(s types.StockInfo) bool {
	_, ok := e.set[strings.ToUpper(s.Symbol)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(s types.StockInfo) bool {
	ok, _ := filepath.Match(g.pattern, strings.ToUpper(s.Symbol))
	return ok
}

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(s types.StockInfo) bool {
	return r.re.MatchString(s.Symbol) || r.re.MatchString(s.Description)
}

// SubstrCI matches if the symbol or description contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(st types.StockInfo) bool {
	return strings.Contains(strings.ToLower(st.Symbol), s.needle) ||
		strings.Contains(strings.ToLower(st.Description), s.needle)
}

func (g Glob) String() string     { return "glob:" + g.pattern }
func (s SubstrCI) String() string { return "substr-ci:" + s.needle }
func (r Regex) String() string    { return "regex:" + r.re.String() }

// Apply returns the stocks f matches, in input order.
func Apply(f Filter, stocks []types.StockInfo) []types.StockInfo {
	if f == nil {
		return stocks
	}
	out := make([]types.StockInfo, 0, len(stocks))
	for _, s := range stocks {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
