package filings

import (
	"context"
	"sort"

	"github.com/trescomas/findata/internal/model"
)

const gaapTaxonomy = "us-gaap"

// revenueTags in priority order: the first tag the company reports under
// supplies the whole revenue series. Companies switch tags across taxonomy
// revisions, so mixing tags would double-count periods.
var revenueTags = []string{"Revenue", "Revenues", "SalesRevenueNet"}

const (
	netIncomeTag = "NetIncomeLoss"
	epsTag       = "EarningsPerShareDiluted"
)

// KeyFinancials extracts annual revenue, net income, and diluted EPS series
// from company facts. Each series is independently best-effort: a company
// missing one tag still yields the others. Returns nil when facts are
// unavailable.
func (s *Source) KeyFinancials(ctx context.Context, ticker string) (*model.KeyFinancials, error) {
	facts, err := s.CompanyFacts(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if facts == nil {
		return nil, nil
	}

	gaap := facts.Facts[gaapTaxonomy]
	if gaap == nil {
		s.logger.Warn("no gaap facts reported", "ticker", ticker)
		return nil, nil
	}

	kf := &model.KeyFinancials{Ticker: ticker}
	for _, tag := range revenueTags {
		if points := annualSeries(gaap, tag); len(points) > 0 {
			kf.Revenue = points
			break
		}
	}
	kf.NetIncome = annualSeries(gaap, netIncomeTag)
	kf.EPS = annualSeries(gaap, epsTag)

	return kf, nil
}

// annualSeries pulls the annual-report entries for one tag, ordered by
// filed date descending. All reported units contribute: registrants file
// in their reporting currency, not always USD.
func annualSeries(gaap map[string]FactTag, tag string) []model.FinancialPoint {
	var points []model.FinancialPoint
	for _, entries := range gaap[tag].Units {
		for _, e := range entries {
			if e.Form != "10-K" {
				continue
			}
			points = append(points, model.FinancialPoint{
				Value:     e.Val,
				EndDate:   e.End,
				FiledDate: e.Filed,
			})
		}
	}
	if len(points) == 0 {
		return nil
	}

	// ISO dates compare correctly as strings.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].FiledDate > points[j].FiledDate
	})
	return points
}
