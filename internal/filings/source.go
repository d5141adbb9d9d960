package filings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trescomas/findata/internal/api"
	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/metrics"
	"github.com/trescomas/findata/internal/model"
	"github.com/trescomas/findata/internal/ratelimit"
	"github.com/trescomas/findata/internal/validate"
)

const (
	sourceName = "filings"

	defaultFilingCount = 10
	recent8KCount      = 5
)

// Source wraps the regulatory-filings provider. The provider splits its
// surface across two hosts: the ticker directory lives on one, submissions
// and company facts on another, so the source carries a client per host.
type Source struct {
	directory *api.Client
	data      *api.Client
	cache     *cache.Cache
	limiter   ratelimit.Limiter
	logger    *slog.Logger
}

// New creates a filings source client. directory serves the ticker
// directory; data serves submissions and company facts.
func New(directory, data *api.Client, c *cache.Cache, limiter ratelimit.Limiter, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		directory: directory,
		data:      data,
		cache:     c,
		limiter:   limiter,
		logger:    logger,
	}
}

// CIK resolves a ticker to its 10-digit zero-padded registrant number.
// Returns "" (and no error) when the ticker is not in the directory or the
// directory is unreachable; every filings operation short-circuits on "".
func (s *Source) CIK(ctx context.Context, ticker string) (string, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return "", err
	}

	key := "cik_" + ticker
	var cached string
	if s.cache.Get(ctx, key, cache.Filing, &cached) {
		return cached, nil
	}

	s.limiter.Acquire(ctx)

	var dir map[string]directoryEntry
	if err := s.directory.GetJSON(ctx, "/files/company_tickers.json", nil, &dir); err != nil {
		s.logger.Warn("ticker directory fetch failed", "ticker", ticker, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return "", nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	for _, entry := range dir {
		if entry.Ticker == ticker {
			cik := fmt.Sprintf("%010d", entry.CIK)
			s.cache.Set(ctx, key, cik, cache.Filing)
			return cik, nil
		}
	}

	// Cache the negative result too: the directory is a single large
	// document, and an unlisted ticker stays unlisted for a while.
	s.logger.Warn("ticker not in directory", "ticker", ticker)
	s.cache.Set(ctx, key, "", cache.Filing)
	return "", nil
}

// FilingsMetadata lists recent filings for a ticker, newest first as the
// provider reports them. form filters by form type when non-empty; count
// caps the result (default 10). Rows missing required metadata are skipped.
func (s *Source) FilingsMetadata(ctx context.Context, ticker, form string, count int) ([]model.Filing, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = defaultFilingCount
	}

	key := fmt.Sprintf("filings_%s_%s_%d", ticker, form, count)
	var cached []model.Filing
	if s.cache.Get(ctx, key, cache.Filing, &cached) {
		return cached, nil
	}

	cik, err := s.CIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if cik == "" {
		return nil, nil
	}

	s.limiter.Acquire(ctx)

	var resp submissionsResponse
	if err := s.data.GetJSON(ctx, "/submissions/CIK"+cik+".json", nil, &resp); err != nil {
		s.logger.Warn("submissions fetch failed", "ticker", ticker, "cik", cik, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return nil, nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	recent := resp.Filings.Recent
	filings := make([]model.Filing, 0, count)
	for i := range recent.Form {
		if form != "" && recent.Form[i] != form {
			continue
		}
		f := &model.Filing{
			Ticker:          ticker,
			CIK:             cik,
			Form:            recent.Form[i],
			AccessionNumber: at(recent.AccessionNumber, i),
			FilingDate:      at(recent.FilingDate, i),
			PrimaryDocument: at(recent.PrimaryDocument, i),
		}
		if f = validate.Filing(f); f == nil {
			continue
		}
		filings = append(filings, *f)
		if len(filings) == count {
			break
		}
	}

	// An empty list is a real answer and caches like any other, so a
	// ticker with no matching filings does not re-fetch the submissions
	// document every cycle.
	s.cache.Set(ctx, key, filings, cache.Filing)
	if len(filings) == 0 {
		s.logger.Warn("no filings found", "ticker", ticker, "form", form)
		return nil, nil
	}
	return filings, nil
}

// Recent10K returns the most recent annual report, or nil when none exists.
func (s *Source) Recent10K(ctx context.Context, ticker string) (*model.Filing, error) {
	filings, err := s.FilingsMetadata(ctx, ticker, "10-K", 1)
	if err != nil || len(filings) == 0 {
		return nil, err
	}
	return &filings[0], nil
}

// Recent8K returns up to the five most recent current reports.
func (s *Source) Recent8K(ctx context.Context, ticker string) ([]model.Filing, error) {
	return s.FilingsMetadata(ctx, ticker, "8-K", recent8KCount)
}

// CompanyFacts fetches the full structured-facts document for a ticker.
func (s *Source) CompanyFacts(ctx context.Context, ticker string) (*FactsResponse, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}

	key := "facts_" + ticker
	var cached FactsResponse
	if s.cache.Get(ctx, key, cache.Filing, &cached) {
		return &cached, nil
	}

	cik, err := s.CIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if cik == "" {
		return nil, nil
	}

	s.limiter.Acquire(ctx)

	var resp FactsResponse
	if err := s.data.GetJSON(ctx, "/api/xbrl/companyfacts/CIK"+cik+".json", nil, &resp); err != nil {
		s.logger.Warn("company facts fetch failed", "ticker", ticker, "cik", cik, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return nil, nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	if len(resp.Facts) == 0 {
		s.logger.Warn("company facts empty", "ticker", ticker, "cik", cik)
		return nil, nil
	}

	s.cache.Set(ctx, key, &resp, cache.Filing)
	return &resp, nil
}

func at(ss []string, i int) string {
	if i < len(ss) {
		return ss[i]
	}
	return ""
}
