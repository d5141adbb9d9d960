package marketdata

// infoResponse from GET /v1/info/{ticker}
type infoResponse struct {
	Symbol           string  `json:"symbol"`
	ShortName        string  `json:"shortName"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
	MarketCap        float64 `json:"marketCap"`
	TrailingPE       float64 `json:"trailingPE"`
	DividendYield    float64 `json:"dividendYield"`
	Beta             float64 `json:"beta"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
	AverageVolume    int64   `json:"averageVolume"`
}

// chartResponse from GET /v1/chart/{ticker}
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// chartQuote holds parallel OHLCV arrays. Entries are pointers because the
// provider emits null for gaps; validation repairs them downstream.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// optionsResponse from GET /v1/options/{ticker}
type optionsResponse struct {
	OptionChain struct {
		Result []optionsResult `json:"result"`
		Error  any             `json:"error"`
	} `json:"optionChain"`
}

type optionsResult struct {
	Symbol          string         `json:"symbol"`
	ExpirationDates []string       `json:"expirationDates"`
	Options         []optionsEntry `json:"options"`
}

type optionsEntry struct {
	ExpirationDate string         `json:"expirationDate"`
	Calls          []wireContract `json:"calls"`
	Puts           []wireContract `json:"puts"`
}

type wireContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	Expiration        string  `json:"expiration"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
}
