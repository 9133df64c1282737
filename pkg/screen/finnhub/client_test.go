package finnhub

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/types"
)

type countingGate struct{ n atomic.Int32 }

func (g *countingGate) Acquire(ctx context.Context) error {
	g.n.Add(1)
	return ctx.Err()
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return New("test-key", append([]Option{WithBaseURL(srv.URL), WithLogger(log)}, opts...)...)
}

func TestSymbolsKeepsCommonStockOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/symbol" || r.URL.Query().Get("exchange") != "US" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.URL.Query().Get("token") != "test-key" {
			t.Errorf("token not sent")
		}
		w.Write([]byte(`[
			{"type":"Common Stock","symbol":"AAPL","currency":"USD","description":"APPLE INC"},
			{"type":"ETP","symbol":"SPY","currency":"USD","description":"SPDR S&P 500"},
			{"type":"Common Stock","symbol":"KO","currency":"USD","description":"COCA-COLA CO"}
		]`))
	})

	stocks, err := c.Symbols(context.Background(), "US")
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("expected 2 common stocks, got %d", len(stocks))
	}
	if stocks[0].Symbol != "AAPL" || stocks[1].Symbol != "KO" || stocks[0].Exchange != "US" {
		t.Fatalf("unexpected stocks: %+v", stocks)
	}
}

func TestMetricsKeepsAbsentKeysNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("metric") != "all" {
			t.Errorf("metric=all not requested")
		}
		w.Write([]byte(`{"metric":{"peNormalizedAnnual":14.5,"pbAnnual":0,"totalDebt/totalEquityAnnual":45,"epsGrowth":null},"symbol":"KO"}`))
	})

	f, err := c.Metrics(context.Background(), "KO")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if f.PE == nil || *f.PE != 14.5 {
		t.Fatalf("pe = %v", f.PE)
	}
	if f.PB == nil || *f.PB != 0 {
		t.Fatalf("reported zero must stay a zero, got %v", f.PB)
	}
	if f.TotalDebtToEquity == nil || math.Abs(*f.TotalDebtToEquity-0.45) > 1e-12 {
		t.Fatalf("debt/equity should be scaled from percent, got %v", f.TotalDebtToEquity)
	}
	if f.EPSGrowth != nil || f.DividendPerShare != nil {
		t.Fatalf("absent or null metrics must be nil")
	}
}

func TestMetricsWithoutTableIsShapeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"KO"}`))
	})
	_, err := c.Metrics(context.Background(), "KO")
	if types.KindOf(err) != types.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestBalanceSheetExtractsCurrentItemsInMillions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("freq") != "annual" {
			t.Errorf("freq=annual not requested")
		}
		w.Write([]byte(`{"data":[{"report":{"bs":[
			{"label":"Total current assets","concept":"us-gaap_AssetsCurrent","value":143566000000},
			{"label":"Total current liabilities","concept":"us-gaap_LiabilitiesCurrent","value":145308000000},
			{"label":"Term debt","concept":"us-gaap_LongTermDebtCurrent","value":9822000000},
			{"label":"Term debt","concept":"us-gaap_LongTermDebtNoncurrent","value":95281000000}
		]}},{"report":{"bs":[]}}]}`))
	})

	bs, err := c.BalanceSheet(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("BalanceSheet: %v", err)
	}
	if bs.TotalCurrentAssets == nil || *bs.TotalCurrentAssets != 143566 {
		t.Fatalf("current assets = %v", bs.TotalCurrentAssets)
	}
	if bs.TotalCurrentLiabilities == nil || *bs.TotalCurrentLiabilities != 145308 {
		t.Fatalf("current liabilities = %v", bs.TotalCurrentLiabilities)
	}
	if bs.CurrentLongTermDebt == nil || *bs.CurrentLongTermDebt != 9822 {
		t.Fatalf("current long-term debt = %v", bs.CurrentLongTermDebt)
	}
}

func TestBalanceSheetMissingLinesStayAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"report":{"bs":[{"label":"Total current assets","concept":"x","value":1000000}]}}]}`))
	})
	bs, err := c.BalanceSheet(context.Background(), "X")
	if err != nil {
		t.Fatal(err)
	}
	if bs.TotalCurrentAssets == nil || *bs.TotalCurrentAssets != 1 {
		t.Fatalf("current assets = %v", bs.TotalCurrentAssets)
	}
	if bs.TotalCurrentLiabilities != nil || bs.CurrentLongTermDebt != nil {
		t.Fatalf("unreported lines must not default to zero")
	}
}

func TestBalanceSheetNoFilings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cik":"","data":[],"symbol":"NEW"}`))
	})
	bs, err := c.BalanceSheet(context.Background(), "NEW")
	if err != nil {
		t.Fatal(err)
	}
	if bs != (BalanceSheet{}) {
		t.Fatalf("expected empty balance sheet, got %+v", bs)
	}
}

func TestProfileEmptyObjectIsShapeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := c.Profile(context.Background(), "NOPE")
	var fe *types.FetchError
	if !errors.As(err, &fe) || fe.Kind != types.KindShape || fe.Resource != types.ResourceProfile {
		t.Fatalf("expected profile shape error, got %v", err)
	}
}

func TestProfileParsesMarketCap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Apple Inc","ticker":"AAPL","finnhubIndustry":"Technology","marketCapitalization":2800000.5,"shareOutstanding":15550.06,"currency":"USD"}`))
	})
	info, err := c.Profile(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if info.Industry != "Technology" || info.MarketCap == nil || *info.MarketCap != 2800000.5 {
		t.Fatalf("unexpected profile %+v", info)
	}
	if info.SharesOutstanding == nil || *info.SharesOutstanding != 15550.06 {
		t.Fatalf("shares outstanding = %v", info.SharesOutstanding)
	}
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":189.5,"h":190,"l":187.2,"o":188,"pc":188.1,"t":1700000000}`))
	})
	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if q.Current != 189.5 || q.PreviousClose != 188.1 || q.Timestamp != 1700000000 {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestErrorKinds(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"API limit reached"}`))
		})
		_, err := c.Quote(context.Background(), "AAPL")
		var fe *types.FetchError
		if !errors.As(err, &fe) || fe.Kind != types.KindStatus || fe.Status != http.StatusTooManyRequests {
			t.Fatalf("expected status error, got %v", err)
		}
	})
	t.Run("shape", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"c":"not a number"}`))
		})
		_, err := c.Quote(context.Background(), "AAPL")
		if types.KindOf(err) != types.KindShape {
			t.Fatalf("expected shape error, got %v", err)
		}
	})
	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c := New("k", WithBaseURL(url))
		_, err := c.Quote(context.Background(), "AAPL")
		if types.KindOf(err) != types.KindNetwork {
			t.Fatalf("expected network error, got %v", err)
		}
	})
	t.Run("canceled", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Quote(ctx, "AAPL")
		if types.KindOf(err) != types.KindCanceled {
			t.Fatalf("expected canceled, got %v", err)
		}
	})
}

func TestGateConsultedOncePerRequest(t *testing.T) {
	gate := &countingGate{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":1}`))
	}, WithGate(gate))

	for i := 0; i < 3; i++ {
		if _, err := c.Quote(context.Background(), "AAPL"); err != nil {
			t.Fatal(err)
		}
	}
	if gate.n.Load() != 3 {
		t.Fatalf("gate acquired %d times, want 3", gate.n.Load())
	}
}
