package filings

// directoryEntry is one company in the provider's ticker directory.
type directoryEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// submissionsResponse from GET /submissions/CIK{cik}.json. The recent
// block is column-oriented: parallel arrays indexed together.
type submissionsResponse struct {
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

type recentFilings struct {
	Form            []string `json:"form"`
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// FactsResponse from GET /api/xbrl/companyfacts/CIK{cik}.json, keyed by
// accounting taxonomy (e.g. "us-gaap") and then by tag.
type FactsResponse struct {
	CIK        int64                         `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]FactTag `json:"facts"`
}

// FactTag holds the unit-keyed report series for one taxonomy tag.
type FactTag struct {
	Label string                 `json:"label"`
	Units map[string][]FactEntry `json:"units"`
}

// FactEntry is one reported value.
type FactEntry struct {
	Val   float64 `json:"val"`
	End   string  `json:"end"`
	Filed string  `json:"filed"`
	Form  string  `json:"form"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
}
