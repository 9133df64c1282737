package batch

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/komsit37/screen/pkg/screen/fetch"
	"github.com/komsit37/screen/pkg/screen/rules"
	"github.com/komsit37/screen/pkg/screen/types"
)

// SlotsPerSymbol is the number of rate-limited requests one symbol costs.
const SlotsPerSymbol = 4

// DefaultWorkers sizes the pool so one window's budget keeps every worker busy.
func DefaultWorkers(maxCallsPerMinute int) int {
	n := maxCallsPerMinute / SlotsPerSymbol
	if n < 1 {
		return 1
	}
	return n
}

// Screener runs fetch and evaluation for many symbols concurrently.
// The fetcher and config are shared read-only; the only coordination between
// symbols is the rate limiter inside the fetcher.
type Screener struct {
	fetcher fetch.Fetcher
	cfg     rules.AnalysisConfig
	workers int
	obs     Observer
}

type Option func(*Screener)

func WithWorkers(n int) Option {
	return func(s *Screener) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Screener) {
		if o != nil {
			s.obs = o
		}
	}
}

func New(f fetch.Fetcher, cfg rules.AnalysisConfig, opts ...Option) *Screener {
	s := &Screener{fetcher: f, cfg: cfg, workers: 1, obs: nopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run screens every distinct symbol in stocks. Every symbol gets exactly one
// result; a failure for one never affects another. If ctx ends, symbols not
// yet finished are reported as canceled and Run returns ctx.Err() together
// with the partial partition.
func (s *Screener) Run(ctx context.Context, stocks []types.StockInfo) (Partition, error) {
	stocks = Dedupe(stocks)
	s.obs.OnStart(len(stocks))

	p := pool.NewWithResults[Result]().WithMaxGoroutines(s.workers)
	for _, stock := range stocks {
		stock := stock
		p.Go(func() Result { return s.Screen(ctx, stock) })
	}
	return NewPartition(p.Wait()), ctx.Err()
}

// Screen evaluates one symbol.
func (s *Screener) Screen(ctx context.Context, stock types.StockInfo) Result {
	r := s.screen(ctx, stock)
	s.obs.OnResult(r)
	return r
}

func (s *Screener) screen(ctx context.Context, stock types.StockInfo) Result {
	if err := ctx.Err(); err != nil {
		return Result{Stock: stock, State: StateError, Err: err}
	}

	s.obs.OnState(stock, StateFetching)
	data, err := s.fetcher.Fetch(ctx, stock)
	if err != nil {
		return Result{Stock: stock, State: StateError, Err: err}
	}

	s.obs.OnState(stock, StateEvaluating)
	v, err := rules.Evaluate(s.cfg, data)
	if err != nil {
		return Result{Stock: stock, State: StateError, Data: &data, Verdict: &v, Err: err}
	}
	state := StateDisqualified
	if v.Qualified() {
		state = StateQualified
	}
	return Result{Stock: stock, State: state, Data: &data, Verdict: &v}
}

// Dedupe drops repeated symbols, keeping the first occurrence.
func Dedupe(stocks []types.StockInfo) []types.StockInfo {
	seen := make(map[string]struct{}, len(stocks))
	out := make([]types.StockInfo, 0, len(stocks))
	for _, st := range stocks {
		if _, ok := seen[st.Symbol]; ok {
			continue
		}
		seen[st.Symbol] = struct{}{}
		out = append(out, st)
	}
	return out
}
