package fetch

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/cache"
	"github.com/komsit37/screen/pkg/screen/types"
)

const stockNamespace = "stock"

// CacheFetcher decorates a Fetcher with an on-disk TTL cache.
// A hit sends no requests and consumes no rate-limit permits.
type CacheFetcher struct {
	next  Fetcher
	store *cache.Store
	log   logrus.FieldLogger

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCacheFetcher(next Fetcher, store *cache.Store, log logrus.FieldLogger) *CacheFetcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CacheFetcher{next: next, store: store, log: log}
}

func (c *CacheFetcher) Fetch(ctx context.Context, stock types.StockInfo) (types.StockData, error) {
	var data types.StockData
	if c.store.Get(stockNamespace, stock.Symbol, &data) {
		c.hits.Add(1)
		data.Stock = stock
		return data, nil
	}
	c.misses.Add(1)

	data, err := c.next.Fetch(ctx, stock)
	if err != nil {
		return data, err
	}
	if err := c.store.Set(stockNamespace, stock.Symbol, data); err != nil {
		c.log.WithError(err).WithField("symbol", stock.Symbol).Warn("cache write failed")
	}
	return data, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *CacheFetcher) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
