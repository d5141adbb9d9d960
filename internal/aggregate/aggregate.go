package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trescomas/findata/internal/marketdata"
	"github.com/trescomas/findata/internal/metrics"
	"github.com/trescomas/findata/internal/model"
	"github.com/trescomas/findata/internal/validate"
)

// MarketData is the market-side source the aggregator reads from.
type MarketData interface {
	TickerInfo(ctx context.Context, ticker string) (*model.TickerInfo, error)
	HistoricalSeries(ctx context.Context, ticker string, opts marketdata.SeriesOptions) (*model.HistoricalSeries, error)
	OptionsChain(ctx context.Context, ticker, expiration string) (*model.OptionsChain, error)
	ImpliedVolatility(ctx context.Context, ticker string) (*model.ImpliedVolatility, error)
}

// Filings is the regulatory-side source the aggregator reads from.
type Filings interface {
	Recent10K(ctx context.Context, ticker string) (*model.Filing, error)
	Recent8K(ctx context.Context, ticker string) ([]model.Filing, error)
	KeyFinancials(ctx context.Context, ticker string) (*model.KeyFinancials, error)
}

// Recorder persists aggregation output. Save methods report success.
type Recorder interface {
	SaveComposite(ctx context.Context, rec *model.CompositeRecord) bool
	SaveFilings(ctx context.Context, filings []model.Filing) bool
	SaveOptionsSnapshot(ctx context.Context, chain *model.OptionsChain) bool
}

// Aggregator builds composite records from the two sources and optionally
// persists them.
type Aggregator struct {
	market  MarketData
	filings Filings
	store   Recorder // nil disables persistence
	logger  *slog.Logger

	now func() time.Time
}

// New creates an aggregator. store may be nil to skip persistence.
func New(market MarketData, filings Filings, store Recorder, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		market:  market,
		filings: filings,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Composite gathers everything known about a ticker into one record. Only
// invalid input errors; every other failure leaves its section nil. A
// panicking source is contained and the partial record is returned.
func (a *Aggregator) Composite(ctx context.Context, ticker string) (rec *model.CompositeRecord, err error) {
	ticker, err = validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID, "ticker", ticker)
	metrics.AggregationRuns.Inc()
	start := a.now()

	rec = &model.CompositeRecord{Symbol: ticker}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("aggregation panicked, returning partial record", "panic", r)
		}
		rec.LastUpdated = a.now().UTC()
		a.persist(ctx, logger, rec)
		logger.Info("aggregation finished",
			"duration", a.now().Sub(start),
			"sections", sectionCount(rec),
		)
		err = nil
	}()

	if info, err := a.market.TickerInfo(ctx, ticker); err == nil {
		rec.BasicInfo = info
	} else {
		logger.Warn("basic info unavailable", "error", err)
	}

	if series, err := a.market.HistoricalSeries(ctx, ticker, marketdata.SeriesOptions{}); err == nil {
		rec.HistoricalData = series
	} else {
		logger.Warn("historical data unavailable", "error", err)
	}

	if chain, err := a.market.OptionsChain(ctx, ticker, ""); err == nil {
		rec.OptionsData = chain
	} else {
		logger.Warn("options data unavailable", "error", err)
	}

	if iv, err := a.market.ImpliedVolatility(ctx, ticker); err == nil {
		rec.ImpliedVolatility = iv
	} else {
		logger.Warn("implied volatility unavailable", "error", err)
	}

	if tenK, err := a.filings.Recent10K(ctx, ticker); err == nil {
		rec.SECData.Recent10K = tenK
	} else {
		logger.Warn("annual report unavailable", "error", err)
	}

	if eightKs, err := a.filings.Recent8K(ctx, ticker); err == nil {
		rec.SECData.Recent8K = eightKs
	} else {
		logger.Warn("current reports unavailable", "error", err)
	}

	if kf, err := a.filings.KeyFinancials(ctx, ticker); err == nil {
		rec.SECData.KeyFinancials = kf
	} else {
		logger.Warn("key financials unavailable", "error", err)
	}

	return rec, nil
}

// persist writes the record and its filings-side documents. Failures are
// already logged and counted by the store.
func (a *Aggregator) persist(ctx context.Context, logger *slog.Logger, rec *model.CompositeRecord) {
	if a.store == nil {
		return
	}

	ok := a.store.SaveComposite(ctx, rec)

	var filings []model.Filing
	if rec.SECData.Recent10K != nil {
		filings = append(filings, *rec.SECData.Recent10K)
	}
	filings = append(filings, rec.SECData.Recent8K...)
	if len(filings) > 0 {
		ok = a.store.SaveFilings(ctx, filings) && ok
	}

	if rec.OptionsData != nil {
		ok = a.store.SaveOptionsSnapshot(ctx, rec.OptionsData) && ok
	}

	logger.Info("persisted composite", "ok", ok)
}

func sectionCount(rec *model.CompositeRecord) int {
	n := 0
	if rec.BasicInfo != nil {
		n++
	}
	if rec.HistoricalData != nil {
		n++
	}
	if rec.OptionsData != nil {
		n++
	}
	if rec.ImpliedVolatility != nil {
		n++
	}
	if rec.SECData.Recent10K != nil {
		n++
	}
	if len(rec.SECData.Recent8K) > 0 {
		n++
	}
	if rec.SECData.KeyFinancials != nil {
		n++
	}
	return n
}
