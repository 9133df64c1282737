package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/screen/pkg/screen/finnhub"
	"github.com/komsit37/screen/pkg/screen/types"
)

// YahooQuotes implements QuoteSource using yf-go.
type YahooQuotes struct {
	client  *yfgo.Client
	gate    finnhub.Gate
	timeout time.Duration
}

// NewYahooQuotes returns a quote source backed by Yahoo Finance.
// When gate is non-nil every lookup consumes one permit from it.
func NewYahooQuotes(gate finnhub.Gate, timeout time.Duration) *YahooQuotes {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YahooQuotes{client: yfgo.NewClient(), gate: gate, timeout: timeout}
}

func (y *YahooQuotes) Quote(ctx context.Context, sym string) (types.CompanyQuote, error) {
	if y.gate != nil {
		if err := y.gate.Acquire(ctx); err != nil {
			return types.CompanyQuote{}, types.NewFetchError(types.KindCanceled, types.ResourceQuote, sym, err)
		}
	}

	cctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()
	res, err := y.client.QuoteSummaryTyped(cctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		if ctx.Err() != nil {
			return types.CompanyQuote{}, types.NewFetchError(types.KindCanceled, types.ResourceQuote, sym, ctx.Err())
		}
		return types.CompanyQuote{}, types.NewFetchError(types.KindNetwork, types.ResourceQuote, sym, err)
	}
	if res.Price == nil || res.Price.RegularMarketPrice.Raw == nil {
		return types.CompanyQuote{}, types.NewFetchError(types.KindShape, types.ResourceQuote, sym,
			errors.New("no regular market price"))
	}

	// Only the current price feeds the screen; the other quote fields stay zero.
	return types.CompanyQuote{Current: *res.Price.RegularMarketPrice.Raw, Timestamp: time.Now().Unix()}, nil
}

func (y *YahooQuotes) String() string { return fmt.Sprintf("yahoo(timeout=%s)", y.timeout) }
