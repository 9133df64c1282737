package fetch

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/komsit37/screen/pkg/screen/finnhub"
	"github.com/komsit37/screen/pkg/screen/types"
)

// Fetcher retrieves everything needed to screen one symbol.
type Fetcher interface {
	Fetch(ctx context.Context, stock types.StockInfo) (types.StockData, error)
}

// QuoteSource supplies the latest price snapshot for a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (types.CompanyQuote, error)
}

// API is the part of the Finnhub client the fetcher depends on.
type API interface {
	QuoteSource
	Profile(ctx context.Context, symbol string) (types.CompanyInformation, error)
	Metrics(ctx context.Context, symbol string) (types.CompanyFinancials, error)
	BalanceSheet(ctx context.Context, symbol string) (finnhub.BalanceSheet, error)
}

// Service fetches the quote, profile and financials of a symbol concurrently.
// It never retries; the first failing request cancels its siblings.
type Service struct {
	api    API
	quotes QuoteSource
}

type Option func(*Service)

// WithQuoteSource takes quotes from q instead of the API.
func WithQuoteSource(q QuoteSource) Option {
	return func(s *Service) {
		if q != nil {
			s.quotes = q
		}
	}
}

func NewService(api API, opts ...Option) *Service {
	s := &Service{api: api, quotes: api}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Fetch(ctx context.Context, stock types.StockInfo) (types.StockData, error) {
	sym := stock.Symbol
	data := types.StockData{Stock: stock}
	var bs finnhub.BalanceSheet
	errs := make([]error, 4)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		data.Financials, errs[0] = s.api.Metrics(ctx, sym)
		return errs[0]
	})
	p.Go(func(ctx context.Context) error {
		bs, errs[1] = s.api.BalanceSheet(ctx, sym)
		return errs[1]
	})
	p.Go(func(ctx context.Context) error {
		data.Information, errs[2] = s.api.Profile(ctx, sym)
		return errs[2]
	})
	p.Go(func(ctx context.Context) error {
		data.Quote, errs[3] = s.quotes.Quote(ctx, sym)
		return errs[3]
	})
	if err := p.Wait(); err != nil {
		return types.StockData{}, rootCause(errs)
	}

	bs.Apply(&data.Financials)
	return data, nil
}

// rootCause prefers the error that triggered cancellation over the
// cancellations it caused in sibling requests.
func rootCause(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if types.KindOf(err) != types.KindCanceled {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}
