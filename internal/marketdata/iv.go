package marketdata

import (
	"context"
	"time"

	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/model"
	"github.com/trescomas/findata/internal/validate"
)

// ImpliedVolatility derives an IV summary from the ticker's options chain.
// Per expiration, calls and puts with positive IV are averaged separately
// and the two side averages are averaged again; a side with no positive IVs
// is excluded from that average rather than counted as zero. Expirations
// contributing nothing are dropped entirely, and the overall AverageIV is
// the mean of the per-expiration averages that remain.
func (s *Source) ImpliedVolatility(ctx context.Context, ticker string) (*model.ImpliedVolatility, error) {
	ticker, err := validate.Ticker(ticker)
	if err != nil {
		return nil, err
	}

	key := "iv_" + ticker
	var cached model.ImpliedVolatility
	if s.cache.Get(ctx, key, cache.Price, &cached) {
		return &cached, nil
	}

	chain, err := s.OptionsChain(ctx, ticker, "")
	if err != nil {
		return nil, err
	}
	if chain == nil {
		s.logger.Warn("no options data to derive implied volatility", "ticker", ticker)
		return nil, nil
	}

	iv := DeriveIV(chain)
	s.cache.Set(ctx, key, iv, cache.Price)
	return iv, nil
}

// DeriveIV computes the IV summary for a validated options chain.
func DeriveIV(chain *model.OptionsChain) *model.ImpliedVolatility {
	iv := &model.ImpliedVolatility{
		Symbol:      chain.Symbol,
		Expirations: make(map[string]model.ExpirationIV),
		LastUpdated: time.Now().UTC(),
	}

	var overall []float64
	for date, exp := range chain.Expirations {
		callsIV, callsOK := positiveMean(exp.Calls)
		putsIV, putsOK := positiveMean(exp.Puts)
		if !callsOK && !putsOK {
			continue
		}

		var sides []float64
		if callsOK {
			sides = append(sides, callsIV)
		}
		if putsOK {
			sides = append(sides, putsIV)
		}
		avg := mean(sides)

		iv.Expirations[date] = model.ExpirationIV{
			CallsIV:   callsIV,
			PutsIV:    putsIV,
			AverageIV: avg,
		}
		overall = append(overall, avg)
	}

	if len(overall) > 0 {
		iv.AverageIV = mean(overall)
	}
	return iv
}

// positiveMean averages the positive implied volatilities of one side.
// ok is false when the side contributes no values.
func positiveMean(contracts []model.OptionContract) (avg float64, ok bool) {
	var vals []float64
	for _, c := range contracts {
		if c.ImpliedVolatility > 0 {
			vals = append(vals, c.ImpliedVolatility)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	return mean(vals), true
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
