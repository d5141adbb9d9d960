package filings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trescomas/findata/internal/api"
	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/validate"
)

// countingLimiter records acquires without blocking.
type countingLimiter struct {
	n atomic.Int64
}

func (l *countingLimiter) Acquire(context.Context) { l.n.Add(1) }

// newTestSource serves both provider hosts from one test server.
func newTestSource(t *testing.T, handler http.Handler) (*Source, *countingLimiter) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL)
	limiter := &countingLimiter{}
	src := New(
		client,
		client,
		cache.New(cache.NewMemory(), cache.DefaultTTLs(), nil),
		limiter,
		nil,
	)
	return src, limiter
}

const directoryBody = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"}
}`

const submissionsBody = `{
	"filings": {
		"recent": {
			"form": ["8-K", "10-K", "4", "8-K", "10-K"],
			"accessionNumber": ["0000320193-24-000100", "0000320193-24-000081", "0000320193-24-000070", "0000320193-24-000055", "0000320193-23-000106"],
			"filingDate": ["2024-08-02", "2024-07-01", "2024-06-15", "2024-05-03", "2023-11-03"],
			"primaryDocument": ["d8k.htm", "aapl-10k.htm", "form4.xml", "d8k2.htm", "aapl-10k-2023.htm"]
		}
	}
}`

const factsBody = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"us-gaap": {
			"Revenues": {
				"units": {
					"USD": [
						{"val": 383285000000, "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"},
						{"val": 394328000000, "end": "2022-09-24", "filed": "2022-10-28", "form": "10-K"},
						{"val": 94836000000, "end": "2023-12-30", "filed": "2024-02-02", "form": "10-Q"}
					]
				}
			},
			"NetIncomeLoss": {
				"units": {
					"USD": [
						{"val": 96995000000, "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"},
						{"val": 99803000000, "end": "2022-09-24", "filed": "2022-10-28", "form": "10-K"}
					]
				}
			},
			"EarningsPerShareDiluted": {
				"units": {
					"USD/shares": [
						{"val": 6.13, "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"}
					]
				}
			}
		}
	}
}`

func secHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionsBody))
	})
	mux.HandleFunc("/api/xbrl/companyfacts/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(factsBody))
	})
	return mux
}

func TestCIK(t *testing.T) {
	src, limiter := newTestSource(t, secHandler(t))

	cik, err := src.CIK(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", cik)

	// Cached on the second call.
	cik, err = src.CIK(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", cik)
	assert.Equal(t, int64(1), limiter.n.Load())
}

func TestCIKUnknownTicker(t *testing.T) {
	src, _ := newTestSource(t, secHandler(t))

	cik, err := src.CIK(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Empty(t, cik)
}

func TestCIKInvalidTicker(t *testing.T) {
	src, limiter := newTestSource(t, secHandler(t))

	_, err := src.CIK(context.Background(), "not a ticker!")
	require.ErrorIs(t, err, validate.ErrInvalidInput)
	assert.Zero(t, limiter.n.Load())
}

func TestCIKUnknownTickerCached(t *testing.T) {
	var directoryHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		directoryHits.Add(1)
		w.Write([]byte(directoryBody))
	})
	src, limiter := newTestSource(t, mux)

	// The miss is cached: the second lookup must not re-fetch the
	// directory document.
	for i := 0; i < 2; i++ {
		cik, err := src.CIK(context.Background(), "ZZZZ")
		require.NoError(t, err)
		assert.Empty(t, cik)
	}
	assert.Equal(t, int64(1), directoryHits.Load())
	assert.Equal(t, int64(1), limiter.n.Load())
}

func TestCIKDirectoryDown(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	cik, err := src.CIK(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, cik)
}

func TestFilingsMetadata(t *testing.T) {
	src, limiter := newTestSource(t, secHandler(t))

	filings, err := src.FilingsMetadata(context.Background(), "AAPL", "", 0)
	require.NoError(t, err)
	require.Len(t, filings, 5)
	assert.Equal(t, "8-K", filings[0].Form)
	assert.Equal(t, "0000320193-24-000100", filings[0].AccessionNumber)
	assert.Equal(t, "AAPL", filings[0].Ticker)
	assert.Equal(t, "0000320193", filings[0].CIK)

	// One directory lookup plus one submissions fetch.
	assert.Equal(t, int64(2), limiter.n.Load())
}

func TestFilingsMetadataFormFilter(t *testing.T) {
	src, _ := newTestSource(t, secHandler(t))

	filings, err := src.FilingsMetadata(context.Background(), "AAPL", "10-K", 0)
	require.NoError(t, err)
	require.Len(t, filings, 2)
	assert.Equal(t, "10-K", filings[0].Form)
	assert.Equal(t, "2024-07-01", filings[0].FilingDate)
	assert.Equal(t, "2023-11-03", filings[1].FilingDate)
}

func TestFilingsMetadataUnknownTickerShortCircuits(t *testing.T) {
	var submissionsHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/submissions/", func(w http.ResponseWriter, r *http.Request) {
		submissionsHits.Add(1)
		w.Write([]byte(submissionsBody))
	})
	src, _ := newTestSource(t, mux)

	filings, err := src.FilingsMetadata(context.Background(), "ZZZZ", "", 0)
	require.NoError(t, err)
	assert.Nil(t, filings)
	assert.Zero(t, submissionsHits.Load())
}

func TestFilingsMetadataEmptyResultCached(t *testing.T) {
	var submissionsHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		submissionsHits.Add(1)
		w.Write([]byte(submissionsBody))
	})
	src, _ := newTestSource(t, mux)

	// No 10-Q rows exist; the empty answer is cached so the second call
	// does not re-fetch the submissions document.
	for i := 0; i < 2; i++ {
		filings, err := src.FilingsMetadata(context.Background(), "AAPL", "10-Q", 0)
		require.NoError(t, err)
		assert.Empty(t, filings)
	}
	assert.Equal(t, int64(1), submissionsHits.Load())
}

func TestFilingsMetadataSkipsIncompleteRows(t *testing.T) {
	const sparse = `{
		"filings": {
			"recent": {
				"form": ["10-K", "10-K"],
				"accessionNumber": ["", "0000320193-24-000081"],
				"filingDate": ["2024-08-01", "2024-07-01"],
				"primaryDocument": ["a.htm", "b.htm"]
			}
		}
	}`
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sparse))
	})
	src, _ := newTestSource(t, mux)

	filings, err := src.FilingsMetadata(context.Background(), "AAPL", "10-K", 0)
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, "0000320193-24-000081", filings[0].AccessionNumber)
}

func TestRecent10K(t *testing.T) {
	src, _ := newTestSource(t, secHandler(t))

	filing, err := src.Recent10K(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, filing)
	assert.Equal(t, "10-K", filing.Form)
	assert.Equal(t, "0000320193-24-000081", filing.AccessionNumber)
}

func TestRecent8K(t *testing.T) {
	src, _ := newTestSource(t, secHandler(t))

	filings, err := src.Recent8K(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, filings, 2)
	for _, f := range filings {
		assert.Equal(t, "8-K", f.Form)
	}
}

func TestCompanyFacts(t *testing.T) {
	src, limiter := newTestSource(t, secHandler(t))

	facts, err := src.CompanyFacts(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, facts)
	assert.Equal(t, "Apple Inc.", facts.EntityName)
	require.Contains(t, facts.Facts, "us-gaap")

	// Cached: no extra acquisitions beyond directory + facts.
	_, err = src.CompanyFacts(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(2), limiter.n.Load())
}

func TestKeyFinancials(t *testing.T) {
	src, _ := newTestSource(t, secHandler(t))

	kf, err := src.KeyFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, kf)
	assert.Equal(t, "AAPL", kf.Ticker)

	// Annual reports only, newest filed first; the 10-Q entry is excluded.
	require.Len(t, kf.Revenue, 2)
	assert.Equal(t, 383285000000.0, kf.Revenue[0].Value)
	assert.Equal(t, "2023-11-03", kf.Revenue[0].FiledDate)
	assert.Equal(t, "2022-10-28", kf.Revenue[1].FiledDate)

	require.Len(t, kf.NetIncome, 2)
	assert.Equal(t, 96995000000.0, kf.NetIncome[0].Value)

	require.Len(t, kf.EPS, 1)
	assert.Equal(t, 6.13, kf.EPS[0].Value)
}

func TestKeyFinancialsFirstRevenueTagWins(t *testing.T) {
	// Both Revenue and Revenues are reported; only the higher-priority
	// Revenue tag should contribute.
	const mixed = `{
		"cik": 320193,
		"entityName": "Apple Inc.",
		"facts": {
			"us-gaap": {
				"Revenue": {
					"units": {"USD": [
						{"val": 100, "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"}
					]}
				},
				"Revenues": {
					"units": {"USD": [
						{"val": 200, "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"},
						{"val": 300, "end": "2022-09-24", "filed": "2022-10-28", "form": "10-K"}
					]}
				}
			}
		}
	}`
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/api/xbrl/companyfacts/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mixed))
	})
	src, _ := newTestSource(t, mux)

	kf, err := src.KeyFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, kf)
	require.Len(t, kf.Revenue, 1)
	assert.Equal(t, 100.0, kf.Revenue[0].Value)
	assert.Nil(t, kf.NetIncome)
	assert.Nil(t, kf.EPS)
}

func TestKeyFinancialsForeignReportingCurrency(t *testing.T) {
	// Registrant reporting in CAD: every unit key contributes, not just USD.
	const foreign = `{
		"cik": 320193,
		"entityName": "Maple Corp.",
		"facts": {
			"us-gaap": {
				"Revenues": {
					"units": {"CAD": [
						{"val": 500, "end": "2023-12-31", "filed": "2024-03-01", "form": "10-K"}
					]}
				},
				"EarningsPerShareDiluted": {
					"units": {"CAD/shares": [
						{"val": 1.5, "end": "2023-12-31", "filed": "2024-03-01", "form": "10-K"}
					]}
				}
			}
		}
	}`
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryBody))
	})
	mux.HandleFunc("/api/xbrl/companyfacts/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(foreign))
	})
	src, _ := newTestSource(t, mux)

	kf, err := src.KeyFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, kf)
	require.Len(t, kf.Revenue, 1)
	assert.Equal(t, 500.0, kf.Revenue[0].Value)
	require.Len(t, kf.EPS, 1)
	assert.Equal(t, 1.5, kf.EPS[0].Value)
}

func TestKeyFinancialsNoFacts(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	kf, err := src.KeyFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, kf)
}
