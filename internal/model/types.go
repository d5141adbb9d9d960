package model

import "time"

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// TickerInfo holds basic information about a security.
type TickerInfo struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	MarketCap         float64 `json:"market_cap"`
	PERatio           float64 `json:"pe_ratio"`
	DividendYield     float64 `json:"dividend_yield"`
	Beta              float64 `json:"beta"`
	FiftyTwoWeekHigh  float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow   float64 `json:"fifty_two_week_low"`
	AvgVolume         int64   `json:"avg_volume"`

	LastUpdated time.Time `json:"last_updated"`
}

// Bar is one OHLCV row of a price series.
type Bar struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`

	// Present-flags distinguish a genuinely missing value from a zero.
	// Validation uses them to repair sparse rows.
	HasOpen   bool `json:"-"`
	HasHigh   bool `json:"-"`
	HasLow    bool `json:"-"`
	HasClose  bool `json:"-"`
	HasVolume bool `json:"-"`
}

// HistoricalSeries is a validated OHLCV time series for one ticker.
type HistoricalSeries struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`

	LastUpdated time.Time `json:"last_updated"`
}

// OptionContract is one listed contract from an options chain.
type OptionContract struct {
	ContractSymbol    string  `json:"contract_symbol"`
	Strike            float64 `json:"strike"`
	Expiration        string  `json:"expiration"` // YYYY-MM-DD
	Type              string  `json:"type"`       // "call" or "put"
	LastPrice         float64 `json:"last_price"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	InTheMoney        bool    `json:"in_the_money"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"open_interest"`
}

// ExpirationChain holds the calls and puts for one expiration date.
type ExpirationChain struct {
	Calls []OptionContract `json:"calls"`
	Puts  []OptionContract `json:"puts"`
}

// OptionsChain maps expiration dates (YYYY-MM-DD) to their contracts.
type OptionsChain struct {
	Symbol      string                     `json:"symbol"`
	Expirations map[string]ExpirationChain `json:"expirations"`

	LastUpdated time.Time `json:"last_updated"`
}

// ExpirationIV holds the averaged implied volatility for one expiration.
type ExpirationIV struct {
	CallsIV   float64 `json:"calls_iv"`
	PutsIV    float64 `json:"puts_iv"`
	AverageIV float64 `json:"average_iv"`
}

// ImpliedVolatility summarizes IV across an options chain. Expirations
// contributing no positive IV on either side are absent from Expirations
// and excluded from AverageIV.
type ImpliedVolatility struct {
	Symbol      string                  `json:"symbol"`
	Expirations map[string]ExpirationIV `json:"expirations"`
	AverageIV   float64                 `json:"average_iv"`

	LastUpdated time.Time `json:"last_updated"`
}

// -----------------------------------------------------------------------------
// Regulatory Filing Types
// -----------------------------------------------------------------------------

// Filing is metadata for one regulatory filing. AccessionNumber is the
// natural key for persistence.
type Filing struct {
	Ticker          string `json:"ticker"`
	CIK             string `json:"cik"` // 10 digits, zero-padded
	Form            string `json:"form"`
	AccessionNumber string `json:"accession_number"`
	FilingDate      string `json:"filing_date"` // YYYY-MM-DD
	PrimaryDocument string `json:"primary_document"`
}

// FinancialPoint is one reported value from a periodic filing.
type FinancialPoint struct {
	Value     float64 `json:"value"`
	EndDate   string  `json:"end_date"`
	FiledDate string  `json:"filed_date"`
}

// KeyFinancials holds annual-report series extracted from company facts,
// each ordered by filed date descending. Slices may be empty.
type KeyFinancials struct {
	Ticker    string           `json:"ticker"`
	Revenue   []FinancialPoint `json:"revenue"`
	NetIncome []FinancialPoint `json:"net_income"`
	EPS       []FinancialPoint `json:"eps"`
}

// -----------------------------------------------------------------------------
// Composite Record
// -----------------------------------------------------------------------------

// SECData groups the filings-side fields of a composite record.
type SECData struct {
	Recent10K     *Filing        `json:"recent_10k,omitempty"`
	Recent8K      []Filing       `json:"recent_8k,omitempty"`
	KeyFinancials *KeyFinancials `json:"key_financials,omitempty"`
}

// CompositeRecord is the aggregator's output for one ticker. Every field
// is independently optional; a record is built by best-effort accumulation.
type CompositeRecord struct {
	Symbol            string             `json:"symbol"`
	BasicInfo         *TickerInfo        `json:"basic_info,omitempty"`
	HistoricalData    *HistoricalSeries  `json:"historical_data,omitempty"`
	OptionsData       *OptionsChain      `json:"options_data,omitempty"`
	ImpliedVolatility *ImpliedVolatility `json:"implied_volatility,omitempty"`
	SECData           SECData            `json:"sec_data"`
	LastUpdated       time.Time          `json:"last_updated"`
}
