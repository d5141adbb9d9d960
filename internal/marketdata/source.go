package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/trescomas/findata/internal/api"
	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/metrics"
	"github.com/trescomas/findata/internal/model"
	"github.com/trescomas/findata/internal/ratelimit"
	"github.com/trescomas/findata/internal/validate"
)

const sourceName = "marketdata"

// SeriesOptions selects the span of a historical query. When Start or End
// is set the explicit date range wins; otherwise Period applies.
type SeriesOptions struct {
	Start    string // YYYY-MM-DD
	End      string // YYYY-MM-DD
	Period   string // e.g. "1y" (default)
	Interval string // e.g. "1d" (default)
}

func (o *SeriesOptions) applyDefaults() {
	if o.Period == "" {
		o.Period = "1y"
	}
	if o.Interval == "" {
		o.Interval = "1d"
	}
}

// Source wraps the market-data provider behind the cache and its rate
// limiter.
type Source struct {
	client  *api.Client
	cache   *cache.Cache
	limiter ratelimit.Limiter
	logger  *slog.Logger
}

// New creates a market-data source client.
func New(client *api.Client, c *cache.Cache, limiter ratelimit.Limiter, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client:  client,
		cache:   c,
		limiter: limiter,
		logger:  logger,
	}
}

// TickerInfo fetches basic information about a security. Returns nil (and
// no error) when the provider has nothing usable.
func (s *Source) TickerInfo(ctx context.Context, ticker string) (*model.TickerInfo, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}

	key := "ticker_info_" + ticker
	var cached model.TickerInfo
	if s.cache.Get(ctx, key, cache.Price, &cached) {
		return &cached, nil
	}

	s.limiter.Acquire(ctx)

	var resp infoResponse
	if err := s.client.GetJSON(ctx, "/v1/info/"+ticker, nil, &resp); err != nil {
		s.logger.Warn("ticker info fetch failed", "ticker", ticker, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return nil, nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	if resp.Symbol == "" && resp.ShortName == "" {
		s.logger.Warn("ticker info empty", "ticker", ticker)
		return nil, nil
	}

	info := resp.toModel(ticker)
	s.cache.Set(ctx, key, info, cache.Price)
	return info, nil
}

// HistoricalSeries fetches an OHLCV series. Sparse rows are repaired by
// validation; a series missing whole columns comes back nil.
func (s *Source) HistoricalSeries(ctx context.Context, ticker string, opts SeriesOptions) (*model.HistoricalSeries, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}
	opts.applyDefaults()

	query := url.Values{}
	query.Set("interval", opts.Interval)

	var key string
	if opts.Start != "" || opts.End != "" {
		start, end, err := validate.DateRange(opts.Start, opts.End)
		if err != nil {
			return nil, err
		}
		query.Set("start", start)
		query.Set("end", end)
		key = fmt.Sprintf("historical_%s_%s_%s_%s", ticker, start, end, opts.Interval)
	} else {
		query.Set("range", opts.Period)
		key = fmt.Sprintf("historical_%s_%s_%s", ticker, opts.Period, opts.Interval)
	}

	var cached model.HistoricalSeries
	if s.cache.Get(ctx, key, cache.Historical, &cached) {
		return &cached, nil
	}

	s.limiter.Acquire(ctx)

	var resp chartResponse
	if err := s.client.GetJSON(ctx, "/v1/chart/"+ticker, query, &resp); err != nil {
		s.logger.Warn("historical fetch failed", "ticker", ticker, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return nil, nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	if len(resp.Chart.Result) == 0 {
		s.logger.Warn("no historical data returned", "ticker", ticker)
		return nil, nil
	}

	series := validate.HistoricalSeries(resp.Chart.Result[0].toSeries(ticker, opts.Interval))
	if series == nil {
		s.logger.Warn("historical data failed validation", "ticker", ticker)
		return nil, nil
	}

	s.cache.Set(ctx, key, series, cache.Historical)
	return series, nil
}

// OptionsChain fetches the options chain for a ticker. With no expiration
// the provider's first available expiration is used; requesting an
// expiration the provider does not list yields nil.
func (s *Source) OptionsChain(ctx context.Context, ticker, expiration string) (*model.OptionsChain, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}

	key := "options_" + ticker
	query := url.Values{}
	if expiration != "" {
		key += "_" + expiration
		query.Set("date", expiration)
	}

	var cached model.OptionsChain
	if s.cache.Get(ctx, key, cache.Price, &cached) {
		return &cached, nil
	}

	s.limiter.Acquire(ctx)

	var resp optionsResponse
	if err := s.client.GetJSON(ctx, "/v1/options/"+ticker, query, &resp); err != nil {
		s.logger.Warn("options fetch failed", "ticker", ticker, "error", err)
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return nil, nil
	}
	metrics.UpstreamRequests.WithLabelValues(sourceName, "ok").Inc()

	if len(resp.OptionChain.Result) == 0 {
		s.logger.Warn("no options available", "ticker", ticker)
		return nil, nil
	}

	chain := resp.OptionChain.Result[0].toOptionsChain(ticker, expiration)
	chain = validate.OptionsChain(chain)
	if chain == nil {
		s.logger.Warn("no valid options data", "ticker", ticker, "expiration", expiration)
		return nil, nil
	}

	s.cache.Set(ctx, key, chain, cache.Price)
	return chain, nil
}
