package batch

import (
	"sort"

	"github.com/komsit37/screen/pkg/screen/rules"
	"github.com/komsit37/screen/pkg/screen/types"
)

// State is where a symbol is in its screening lifecycle. Fetching and
// Evaluating are transient; the other three are terminal.
type State string

const (
	StateFetching     State = "fetching"
	StateEvaluating   State = "evaluating"
	StateQualified    State = "qualified"
	StateDisqualified State = "disqualified"
	StateError        State = "error"
)

// Result is the terminal outcome for one symbol.
// Data is nil when fetching failed; Verdict is nil when no rule ran.
type Result struct {
	Stock   types.StockInfo
	State   State
	Data    *types.StockData
	Verdict *rules.Verdict
	Err     error
}

// Kind returns the error kind for errored results.
func (r Result) Kind() types.ErrorKind { return types.KindOf(r.Err) }

// Reason explains why the symbol did not qualify.
func (r Result) Reason() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.Verdict != nil:
		return r.Verdict.Reason
	default:
		return ""
	}
}

// Partition splits results into two disjoint sets, each sorted by symbol.
// Disqualified and errored symbols both land in NotQualified.
type Partition struct {
	Qualified    []Result
	NotQualified []Result
}

// NewPartition sorts results into a Partition.
func NewPartition(results []Result) Partition {
	var p Partition
	for _, r := range results {
		if r.State == StateQualified {
			p.Qualified = append(p.Qualified, r)
		} else {
			p.NotQualified = append(p.NotQualified, r)
		}
	}
	sortBySymbol(p.Qualified)
	sortBySymbol(p.NotQualified)
	return p
}

// All returns qualified results followed by the rest.
func (p Partition) All() []Result {
	out := make([]Result, 0, len(p.Qualified)+len(p.NotQualified))
	out = append(out, p.Qualified...)
	return append(out, p.NotQualified...)
}

// Counts tallies NotQualified by terminal state and error kind.
type Counts struct {
	Qualified    int
	Disqualified int
	Errors       map[types.ErrorKind]int
}

func (p Partition) Counts() Counts {
	c := Counts{Qualified: len(p.Qualified), Errors: map[types.ErrorKind]int{}}
	for _, r := range p.NotQualified {
		if r.State == StateError {
			c.Errors[r.Kind()]++
		} else {
			c.Disqualified++
		}
	}
	return c
}

func sortBySymbol(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Stock.Symbol < rs[j].Stock.Symbol })
}
