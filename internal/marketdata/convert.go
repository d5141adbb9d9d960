package marketdata

import (
	"time"

	"github.com/trescomas/findata/internal/model"
)

func (r *infoResponse) toModel(ticker string) *model.TickerInfo {
	return &model.TickerInfo{
		Symbol:           ticker,
		Name:             r.ShortName,
		Sector:           r.Sector,
		Industry:         r.Industry,
		MarketCap:        r.MarketCap,
		PERatio:          r.TrailingPE,
		DividendYield:    r.DividendYield,
		Beta:             r.Beta,
		FiftyTwoWeekHigh: r.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  r.FiftyTwoWeekLow,
		AvgVolume:        r.AverageVolume,
		LastUpdated:      time.Now().UTC(),
	}
}

// toSeries flattens the provider's parallel arrays into bars, marking which
// fields were actually present so validation can repair the gaps.
func (r *chartResult) toSeries(ticker, interval string) *model.HistoricalSeries {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	bars := make([]model.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		b := model.Bar{
			Date: time.Unix(ts, 0).UTC().Format("2006-01-02"),
		}
		if v := at(q.Open, i); v != nil {
			b.Open, b.HasOpen = *v, true
		}
		if v := at(q.High, i); v != nil {
			b.High, b.HasHigh = *v, true
		}
		if v := at(q.Low, i); v != nil {
			b.Low, b.HasLow = *v, true
		}
		if v := at(q.Close, i); v != nil {
			b.Close, b.HasClose = *v, true
		}
		if v := at(q.Volume, i); v != nil {
			b.Volume, b.HasVolume = *v, true
		}
		bars = append(bars, b)
	}

	return &model.HistoricalSeries{
		Symbol:      ticker,
		Interval:    interval,
		Bars:        bars,
		LastUpdated: time.Now().UTC(),
	}
}

// at guards against provider arrays shorter than the timestamp column.
func at[T any](s []*T, i int) *T {
	if i >= len(s) {
		return nil
	}
	return s[i]
}

// toOptionsChain keeps the requested expiration, or only the first listed
// one when none was requested, mirroring how the chain is fetched: pulling
// every expiration for every ticker would burn the request budget.
func (r *optionsResult) toOptionsChain(ticker, expiration string) *model.OptionsChain {
	exps := make(map[string]model.ExpirationChain)
	for _, e := range r.Options {
		if expiration != "" && e.ExpirationDate != expiration {
			continue
		}
		exps[e.ExpirationDate] = e.toChain()
		if expiration == "" {
			break
		}
	}
	if len(exps) == 0 {
		return nil
	}
	return &model.OptionsChain{
		Symbol:      ticker,
		Expirations: exps,
		LastUpdated: time.Now().UTC(),
	}
}

func (e *optionsEntry) toChain() model.ExpirationChain {
	chain := model.ExpirationChain{
		Calls: make([]model.OptionContract, 0, len(e.Calls)),
		Puts:  make([]model.OptionContract, 0, len(e.Puts)),
	}
	for _, c := range e.Calls {
		chain.Calls = append(chain.Calls, c.toModel("call", e.ExpirationDate))
	}
	for _, p := range e.Puts {
		chain.Puts = append(chain.Puts, p.toModel("put", e.ExpirationDate))
	}
	return chain
}

func (w *wireContract) toModel(typ, expiration string) model.OptionContract {
	exp := w.Expiration
	if exp == "" {
		exp = expiration
	}
	return model.OptionContract{
		ContractSymbol:    w.ContractSymbol,
		Strike:            w.Strike,
		Expiration:        exp,
		Type:              typ,
		LastPrice:         w.LastPrice,
		Bid:               w.Bid,
		Ask:               w.Ask,
		ImpliedVolatility: w.ImpliedVolatility,
		InTheMoney:        w.InTheMoney,
		Volume:            w.Volume,
		OpenInterest:      w.OpenInterest,
	}
}
