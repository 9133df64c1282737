package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/cache"
	"github.com/komsit37/screen/pkg/screen/finnhub"
	"github.com/komsit37/screen/pkg/screen/types"
)

type countingGate struct{ n atomic.Int32 }

func (g *countingGate) Acquire(ctx context.Context) error {
	g.n.Add(1)
	return ctx.Err()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newClient serves canned bodies per endpoint path.
func newClient(t *testing.T, gate finnhub.Gate, bodies map[string]string, statuses map[string]int) *finnhub.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := statuses[r.URL.Path]; ok {
			w.WriteHeader(code)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	opts := []finnhub.Option{finnhub.WithBaseURL(srv.URL), finnhub.WithLogger(quietLogger())}
	if gate != nil {
		opts = append(opts, finnhub.WithGate(gate))
	}
	return finnhub.New("k", opts...)
}

var goodBodies = map[string]string{
	"/quote":                     `{"c":50,"pc":49}`,
	"/stock/profile2":            `{"name":"Coca-Cola Co","ticker":"KO","finnhubIndustry":"Beverages","marketCapitalization":250000,"shareOutstanding":4300}`,
	"/stock/metric":              `{"metric":{"peNormalizedAnnual":22.1,"pbAnnual":10.2,"totalDebt/totalEquityAnnual":160}}`,
	"/stock/financials-reported": `{"data":[{"report":{"bs":[{"label":"Total current assets","concept":"us-gaap_AssetsCurrent","value":22000000000},{"label":"Total current liabilities","concept":"us-gaap_LiabilitiesCurrent","value":19000000000}]}}]}`,
}

func TestServiceMergesAllResources(t *testing.T) {
	gate := &countingGate{}
	svc := NewService(newClient(t, gate, goodBodies, nil))

	data, err := svc.Fetch(context.Background(), types.StockInfo{Symbol: "KO", Description: "COCA-COLA CO"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if data.Stock.Symbol != "KO" || data.Quote.Current != 50 {
		t.Fatalf("unexpected stock/quote: %+v %+v", data.Stock, data.Quote)
	}
	if data.Information.MarketCap == nil || *data.Information.MarketCap != 250000 {
		t.Fatalf("market cap = %v", data.Information.MarketCap)
	}
	f := data.Financials
	if f.PE == nil || *f.PE != 22.1 {
		t.Fatalf("pe = %v", f.PE)
	}
	if f.TotalCurrentAssets == nil || *f.TotalCurrentAssets != 22000 {
		t.Fatalf("balance sheet not merged: %v", f.TotalCurrentAssets)
	}
	if f.CurrentLongTermDebt != nil {
		t.Fatalf("unreported line must stay nil")
	}
	if n := gate.n.Load(); n != 4 {
		t.Fatalf("one symbol should cost 4 permits, got %d", n)
	}
}

func TestServiceReportsRootCause(t *testing.T) {
	svc := NewService(newClient(t, nil, goodBodies, map[string]int{"/stock/metric": http.StatusForbidden}))

	_, err := svc.Fetch(context.Background(), types.StockInfo{Symbol: "KO"})
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Kind != types.KindStatus || fe.Resource != types.ResourceMetrics || fe.Status != http.StatusForbidden {
		t.Fatalf("unexpected error %+v", fe)
	}
}

func TestServiceCanceled(t *testing.T) {
	svc := NewService(newClient(t, nil, goodBodies, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Fetch(ctx, types.StockInfo{Symbol: "KO"})
	if types.KindOf(err) != types.KindCanceled {
		t.Fatalf("expected canceled, got %v", err)
	}
}

type stubQuotes struct{ price float64 }

func (s stubQuotes) Quote(context.Context, string) (types.CompanyQuote, error) {
	return types.CompanyQuote{Current: s.price}, nil
}

func TestServiceAlternateQuoteSource(t *testing.T) {
	bodies := map[string]string{}
	for k, v := range goodBodies {
		if k != "/quote" {
			bodies[k] = v
		}
	}
	svc := NewService(newClient(t, nil, bodies, nil), WithQuoteSource(stubQuotes{price: 77}))

	data, err := svc.Fetch(context.Background(), types.StockInfo{Symbol: "KO"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if data.Quote.Current != 77 {
		t.Fatalf("quote should come from the alternate source, got %v", data.Quote.Current)
	}
}

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, stock types.StockInfo) (types.StockData, error) {
	f.calls.Add(1)
	if f.err != nil {
		return types.StockData{}, f.err
	}
	return types.StockData{
		Stock:       stock,
		Information: types.CompanyInformation{Name: "Coca-Cola", MarketCap: types.Float(250000)},
	}, nil
}

func TestCacheFetcherServesHits(t *testing.T) {
	next := &countingFetcher{}
	cf := NewCacheFetcher(next, cache.New(t.TempDir(), time.Hour, true), quietLogger())
	stock := types.StockInfo{Symbol: "KO", Description: "COCA-COLA CO"}

	for i := 0; i < 3; i++ {
		data, err := cf.Fetch(context.Background(), stock)
		if err != nil {
			t.Fatal(err)
		}
		if data.Information.MarketCap == nil || *data.Information.MarketCap != 250000 {
			t.Fatalf("market cap lost through cache: %+v", data.Information)
		}
		if data.Stock != stock {
			t.Fatalf("stock info should be the caller's, got %+v", data.Stock)
		}
	}
	if next.calls.Load() != 1 {
		t.Fatalf("underlying fetcher called %d times, want 1", next.calls.Load())
	}
	if hits, misses := cf.Stats(); hits != 2 || misses != 1 {
		t.Fatalf("hits=%d misses=%d", hits, misses)
	}
}

func TestCacheFetcherDoesNotStoreErrors(t *testing.T) {
	next := &countingFetcher{err: types.NewFetchError(types.KindNetwork, types.ResourceQuote, "KO", errors.New("down"))}
	cf := NewCacheFetcher(next, cache.New(t.TempDir(), time.Hour, true), quietLogger())

	for i := 0; i < 2; i++ {
		if _, err := cf.Fetch(context.Background(), types.StockInfo{Symbol: "KO"}); err == nil {
			t.Fatal("expected error")
		}
	}
	if next.calls.Load() != 2 {
		t.Fatalf("failures must not be cached, calls=%d", next.calls.Load())
	}
}
