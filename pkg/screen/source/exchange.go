package source

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/types"
)

// Lister lists the common stocks of one exchange.
type Lister interface {
	Symbols(ctx context.Context, exchange string) ([]types.StockInfo, error)
}

// ExchangeSource loads every common stock listed on the configured exchanges.
// Each exchange costs one rate-limited request; any failure fails the load.
type ExchangeSource struct {
	Client    Lister
	Exchanges []string
	Log       logrus.FieldLogger
}

func (s ExchangeSource) Load(ctx context.Context) ([]types.StockInfo, error) {
	if len(s.Exchanges) == 0 {
		return nil, fmt.Errorf("no exchanges configured")
	}
	var all []types.StockInfo
	for _, ex := range s.Exchanges {
		stocks, err := s.Client.Symbols(ctx, ex)
		if err != nil {
			return nil, fmt.Errorf("list exchange %s: %w", ex, err)
		}
		if s.Log != nil {
			s.Log.WithFields(logrus.Fields{"exchange": ex, "symbols": len(stocks)}).Info("loaded exchange listing")
		}
		all = append(all, stocks...)
	}
	return all, nil
}
