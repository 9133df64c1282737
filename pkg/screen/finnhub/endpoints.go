package finnhub

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/komsit37/screen/pkg/screen/types"
)

const commonStock = "Common Stock"

type symbolEntry struct {
	Type        string `json:"type"`
	Symbol      string `json:"symbol"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// Symbols lists the common stocks traded on exchange.
func (c *Client) Symbols(ctx context.Context, exchange string) ([]types.StockInfo, error) {
	var entries []symbolEntry
	err := c.get(ctx, types.ResourceSymbols, exchange, "/stock/symbol",
		map[string]string{"exchange": exchange}, &entries)
	if err != nil {
		return nil, err
	}
	out := make([]types.StockInfo, 0, len(entries))
	for _, e := range entries {
		if e.Type != commonStock || strings.TrimSpace(e.Symbol) == "" {
			continue
		}
		out = append(out, types.StockInfo{
			Symbol:      e.Symbol,
			Currency:    e.Currency,
			Description: e.Description,
			Exchange:    exchange,
		})
	}
	return out, nil
}

type quoteResponse struct {
	C  *float64 `json:"c"`
	H  float64  `json:"h"`
	L  float64  `json:"l"`
	O  float64  `json:"o"`
	PC float64  `json:"pc"`
	T  int64    `json:"t"`
}

// Quote fetches the latest price snapshot.
func (c *Client) Quote(ctx context.Context, symbol string) (types.CompanyQuote, error) {
	var q quoteResponse
	if err := c.get(ctx, types.ResourceQuote, symbol, "/quote",
		map[string]string{"symbol": symbol}, &q); err != nil {
		return types.CompanyQuote{}, err
	}
	if q.C == nil {
		return types.CompanyQuote{}, types.NewFetchError(types.KindShape, types.ResourceQuote, symbol,
			errors.New("quote has no current price"))
	}
	return types.CompanyQuote{
		Current:       *q.C,
		High:          q.H,
		Low:           q.L,
		Open:          q.O,
		PreviousClose: q.PC,
		Timestamp:     q.T,
	}, nil
}

type profileResponse struct {
	Name              string   `json:"name"`
	Ticker            string   `json:"ticker"`
	Exchange          string   `json:"exchange"`
	Currency          string   `json:"currency"`
	Country           string   `json:"country"`
	Industry          string   `json:"finnhubIndustry"`
	MarketCap         *float64 `json:"marketCapitalization"`
	SharesOutstanding *float64 `json:"shareOutstanding"`
	IPO               string   `json:"ipo"`
	WebURL            string   `json:"weburl"`
}

// Profile fetches the company profile. Finnhub answers unknown symbols with {}.
func (c *Client) Profile(ctx context.Context, symbol string) (types.CompanyInformation, error) {
	var p profileResponse
	if err := c.get(ctx, types.ResourceProfile, symbol, "/stock/profile2",
		map[string]string{"symbol": symbol}, &p); err != nil {
		return types.CompanyInformation{}, err
	}
	if p.Name == "" && p.Ticker == "" {
		return types.CompanyInformation{}, types.NewFetchError(types.KindShape, types.ResourceProfile, symbol,
			errors.New("empty company profile"))
	}
	return types.CompanyInformation{
		Name:              p.Name,
		Ticker:            p.Ticker,
		Exchange:          p.Exchange,
		Currency:          p.Currency,
		Country:           p.Country,
		Industry:          p.Industry,
		MarketCap:         p.MarketCap,
		SharesOutstanding: p.SharesOutstanding,
		IPO:               p.IPO,
		WebURL:            p.WebURL,
	}, nil
}

type metricResponse struct {
	Metric map[string]any `json:"metric"`
}

// Metrics fetches the annual ratio table. Balance-sheet fields stay nil.
func (c *Client) Metrics(ctx context.Context, symbol string) (types.CompanyFinancials, error) {
	var r metricResponse
	if err := c.get(ctx, types.ResourceMetrics, symbol, "/stock/metric",
		map[string]string{"symbol": symbol, "metric": "all"}, &r); err != nil {
		return types.CompanyFinancials{}, err
	}
	if r.Metric == nil {
		return types.CompanyFinancials{}, types.NewFetchError(types.KindShape, types.ResourceMetrics, symbol,
			errors.New("response has no metric table"))
	}
	return financialsFromMetrics(r.Metric), nil
}

func financialsFromMetrics(m map[string]any) types.CompanyFinancials {
	f := types.CompanyFinancials{
		PB:                        metric(m, "pbAnnual"),
		PS:                        metric(m, "psAnnual"),
		PE:                        metric(m, "peNormalizedAnnual"),
		DividendPerShare:          metric(m, "dividendPerShareAnnual"),
		DividendPerShare5YAvg:     metric(m, "dividendPerShare5Y"),
		DividendGrowth5Y:          metric(m, "dividendGrowthRate5Y"),
		EPS:                       metric(m, "epsNormalizedAnnual"),
		EPSGrowth:                 metric(m, "epsGrowth"),
		EPSGrowth5Y:               metric(m, "epsGrowth5Y"),
		BookValuePerShare:         metric(m, "bookValuePerShare"),
		TangibleBookValuePerShare: metric(m, "tangibleBookValuePerShareAnnual"),
		LongTermDebtToEquity:      metric(m, "longTermDebt/equityAnnual"),
		CurrentRatio:              metric(m, "currentRatioAnnual"),
		QuickRatio:                metric(m, "quickRatioAnnual"),
		ROE:                       metric(m, "roeAnnual"),
		ROAE5Y:                    metric(m, "roae5Y"),
		ROAA5Y:                    metric(m, "roaa5Y"),
		ROI:                       metric(m, "roiAnnual"),
		ROI5Y:                     metric(m, "roi5Y"),
		NetProfitMargin:           metric(m, "netProfitMarginAnnual"),
		NetProfitMargin5YAvg:      metric(m, "netProfitMargin5Y"),
		NetMarginGrowth5Y:         metric(m, "netMarginGrowth5Y"),
	}
	// Reported as a percentage.
	if v := metric(m, "totalDebt/totalEquityAnnual"); v != nil {
		f.TotalDebtToEquity = types.Float(*v / 100)
	}
	return f
}

// metric returns the numeric value under key, or nil when absent or not a number.
func metric(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

// BalanceSheet holds the current items of the latest annual filing, in millions.
type BalanceSheet struct {
	TotalCurrentAssets      *float64
	TotalCurrentLiabilities *float64
	CurrentLongTermDebt     *float64
}

const (
	labelCurrentAssets      = "Total current assets"
	labelCurrentLiabilities = "Total current liabilities"
	conceptCurrentAssets    = "us-gaap_AssetsCurrent"
	conceptCurrentLiabs     = "us-gaap_LiabilitiesCurrent"
	conceptCurrentLTD       = "us-gaap_LongTermDebtCurrent"
)

type reportedResponse struct {
	Data *[]struct {
		Report struct {
			BS []lineItem `json:"bs"`
		} `json:"report"`
	} `json:"data"`
}

type lineItem struct {
	Label   string `json:"label"`
	Concept string `json:"concept"`
	Value   any    `json:"value"`
}

// BalanceSheet fetches annual reported financials and extracts current items.
// A symbol with no filings yields an empty BalanceSheet.
func (c *Client) BalanceSheet(ctx context.Context, symbol string) (BalanceSheet, error) {
	var r reportedResponse
	if err := c.get(ctx, types.ResourceStatements, symbol, "/stock/financials-reported",
		map[string]string{"symbol": symbol, "freq": "annual"}, &r); err != nil {
		return BalanceSheet{}, err
	}
	if r.Data == nil {
		return BalanceSheet{}, types.NewFetchError(types.KindShape, types.ResourceStatements, symbol,
			errors.New("response has no data array"))
	}
	if len(*r.Data) == 0 {
		return BalanceSheet{}, nil
	}
	return balanceSheetFrom((*r.Data)[0].Report.BS), nil
}

func balanceSheetFrom(items []lineItem) BalanceSheet {
	var bs BalanceSheet
	for _, it := range items {
		v, ok := it.Value.(float64)
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(it.Label, labelCurrentAssets) || it.Concept == conceptCurrentAssets:
			bs.TotalCurrentAssets = millions(v)
		case strings.EqualFold(it.Label, labelCurrentLiabilities) || it.Concept == conceptCurrentLiabs:
			bs.TotalCurrentLiabilities = millions(v)
		case it.Concept == conceptCurrentLTD:
			bs.CurrentLongTermDebt = millions(v)
		}
	}
	return bs
}

func millions(raw float64) *float64 {
	v := decimal.NewFromFloat(raw).Div(decimal.NewFromInt(1_000_000)).InexactFloat64()
	return &v
}

// Apply copies the balance-sheet items onto f.
func (bs BalanceSheet) Apply(f *types.CompanyFinancials) {
	f.TotalCurrentAssets = bs.TotalCurrentAssets
	f.TotalCurrentLiabilities = bs.TotalCurrentLiabilities
	f.CurrentLongTermDebt = bs.CurrentLongTermDebt
}
