package types

// StockInfo is one tradable symbol as listed by an exchange.
type StockInfo struct {
	Symbol      string `json:"symbol" yaml:"sym"`
	Currency    string `json:"currency,omitempty" yaml:"currency"`
	Description string `json:"description,omitempty" yaml:"description"`
	Exchange    string `json:"exchange,omitempty" yaml:"exchange"`
}

// CompanyQuote is the latest price snapshot for a symbol.
type CompanyQuote struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// CompanyInformation is the company profile.
// MarketCap and SharesOutstanding are in millions.
type CompanyInformation struct {
	Name              string   `json:"name"`
	Ticker            string   `json:"ticker"`
	Exchange          string   `json:"exchange"`
	Currency          string   `json:"currency"`
	Country           string   `json:"country"`
	Industry          string   `json:"industry"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	IPO               string   `json:"ipo,omitempty"`
	WebURL            string   `json:"weburl,omitempty"`
}

// CompanyFinancials holds annual ratios and balance-sheet items.
// A nil field was not reported by the data source.
type CompanyFinancials struct {
	PB                        *float64 `json:"pb,omitempty"`
	PS                        *float64 `json:"ps,omitempty"`
	PE                        *float64 `json:"pe,omitempty"`
	DividendPerShare          *float64 `json:"dividend_per_share,omitempty"`
	DividendPerShare5YAvg     *float64 `json:"dividend_per_share_5y_avg,omitempty"`
	DividendGrowth5Y          *float64 `json:"dividend_growth_5y,omitempty"`
	EPS                       *float64 `json:"eps,omitempty"`
	EPSGrowth                 *float64 `json:"eps_growth,omitempty"`
	EPSGrowth5Y               *float64 `json:"eps_growth_5y,omitempty"`
	BookValuePerShare         *float64 `json:"book_value_per_share,omitempty"`
	TangibleBookValuePerShare *float64 `json:"tangible_book_value_per_share,omitempty"`
	TotalDebtToEquity         *float64 `json:"total_debt_to_equity,omitempty"`
	LongTermDebtToEquity      *float64 `json:"long_term_debt_to_equity,omitempty"`
	CurrentRatio              *float64 `json:"current_ratio,omitempty"`
	QuickRatio                *float64 `json:"quick_ratio,omitempty"`
	ROE                       *float64 `json:"roe,omitempty"`
	ROAE5Y                    *float64 `json:"roae_5y,omitempty"`
	ROAA5Y                    *float64 `json:"roaa_5y,omitempty"`
	ROI                       *float64 `json:"roi,omitempty"`
	ROI5Y                     *float64 `json:"roi_5y,omitempty"`
	NetProfitMargin           *float64 `json:"net_profit_margin,omitempty"`
	NetProfitMargin5YAvg      *float64 `json:"net_profit_margin_5y_avg,omitempty"`
	NetMarginGrowth5Y         *float64 `json:"net_margin_growth_5y,omitempty"`
	TotalCurrentAssets        *float64 `json:"total_current_assets,omitempty"`
	TotalCurrentLiabilities   *float64 `json:"total_current_liabilities,omitempty"`
	CurrentLongTermDebt       *float64 `json:"current_long_term_debt,omitempty"`
}

// StockData bundles everything fetched for one symbol.
type StockData struct {
	Stock       StockInfo          `json:"stock"`
	Quote       CompanyQuote       `json:"quote"`
	Information CompanyInformation `json:"information"`
	Financials  CompanyFinancials  `json:"financials"`
}

// Float returns a pointer to v. Handy for fixtures and parsers.
func Float(v float64) *float64 { return &v }
