package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trescomas/findata/internal/model"
)

func TestTicker(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain symbol", in: "aapl", want: "AAPL"},
		{name: "already canonical", in: "MSFT", want: "MSFT"},
		{name: "surrounding whitespace", in: "  tsla\n", want: "TSLA"},
		{name: "class share dot", in: "brk.b", want: "BRK.B"},
		{name: "hyphenated", in: "bf-b", want: "BF-B"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: "   ", wantErr: true},
		{name: "embedded space", in: "AA PL", wantErr: true},
		{name: "too long", in: "ABCDEFGHIJK", wantErr: true},
		{name: "punctuation", in: "AAPL$", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ticker(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTickerIdempotent(t *testing.T) {
	for _, in := range []string{"aapl", "Brk.b", " ko ", "GOOG"} {
		first, err := Ticker(in)
		require.NoError(t, err)

		second, err := Ticker(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, strings.ToUpper(first), first)
	}
}

func TestDateRange(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		start, end, err := DateRange("2020-01-15", "2021-06-30")
		require.NoError(t, err)
		assert.Equal(t, "2020-01-15", start)
		assert.Equal(t, "2021-06-30", end)
	})

	t.Run("inverted range swaps", func(t *testing.T) {
		start, end, err := DateRange("2021-06-30", "2020-01-15")
		require.NoError(t, err)
		assert.Equal(t, "2020-01-15", start)
		assert.Equal(t, "2021-06-30", end)
	})

	t.Run("defaults applied", func(t *testing.T) {
		start, end, err := DateRange("", "")
		require.NoError(t, err)
		assert.Equal(t, "2000-01-01", start)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), end)
	})

	t.Run("bad format rejected", func(t *testing.T) {
		_, _, err := DateRange("01/15/2020", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func fullBar(date string, open, high, low, close float64, volume int64) model.Bar {
	return model.Bar{
		Date: date, Open: open, High: high, Low: low, Close: close, Volume: volume,
		HasOpen: true, HasHigh: true, HasLow: true, HasClose: true, HasVolume: true,
	}
}

func TestHistoricalSeries(t *testing.T) {
	t.Run("nil and empty series", func(t *testing.T) {
		assert.Nil(t, HistoricalSeries(nil))
		assert.Nil(t, HistoricalSeries(&model.HistoricalSeries{Symbol: "AAPL"}))
	})

	t.Run("column entirely missing is fatal", func(t *testing.T) {
		s := &model.HistoricalSeries{
			Symbol: "AAPL",
			Bars: []model.Bar{
				{Date: "2024-01-02", Open: 1, High: 2, Low: 0.5, HasOpen: true, HasHigh: true, HasLow: true, HasVolume: true},
			},
		}
		assert.Nil(t, HistoricalSeries(s))
	})

	t.Run("complete series passes through", func(t *testing.T) {
		s := &model.HistoricalSeries{
			Symbol: "AAPL",
			Bars: []model.Bar{
				fullBar("2024-01-02", 185, 186, 184, 185.5, 100),
				fullBar("2024-01-03", 185.5, 187, 185, 186.2, 120),
			},
		}
		got := HistoricalSeries(s)
		require.NotNil(t, got)
		assert.Len(t, got.Bars, 2)
		assert.Equal(t, 185.5, got.Bars[0].Close)
	})

	t.Run("missing open filled from close, row kept", func(t *testing.T) {
		sparse := model.Bar{
			Date: "2024-01-03", High: 187, Low: 185, Close: 186.2, Volume: 120,
			HasHigh: true, HasLow: true, HasClose: true, HasVolume: true,
		}
		s := &model.HistoricalSeries{
			Symbol: "AAPL",
			Bars:   []model.Bar{fullBar("2024-01-02", 185, 186, 184, 185.5, 100), sparse},
		}
		got := HistoricalSeries(s)
		require.NotNil(t, got)
		require.Len(t, got.Bars, 2)
		assert.Equal(t, 186.2, got.Bars[1].Open)
		assert.True(t, got.Bars[1].HasOpen)
	})

	t.Run("missing close forward-filled", func(t *testing.T) {
		sparse := model.Bar{
			Date: "2024-01-03", Open: 185.5, High: 187, Low: 185, Volume: 120,
			HasOpen: true, HasHigh: true, HasLow: true, HasVolume: true,
		}
		s := &model.HistoricalSeries{
			Symbol: "AAPL",
			Bars:   []model.Bar{fullBar("2024-01-02", 185, 186, 184, 185.5, 100), sparse},
		}
		got := HistoricalSeries(s)
		require.NotNil(t, got)
		assert.Equal(t, 185.5, got.Bars[1].Close)
	})

	t.Run("high low derived from open close", func(t *testing.T) {
		sparse := model.Bar{
			Date: "2024-01-03", Open: 187, Close: 185,
			HasOpen: true, HasClose: true,
		}
		s := &model.HistoricalSeries{
			Symbol: "AAPL",
			Bars:   []model.Bar{fullBar("2024-01-02", 185, 186, 184, 185.5, 100), sparse},
		}
		got := HistoricalSeries(s)
		require.NotNil(t, got)
		assert.Equal(t, 187.0, got.Bars[1].High)
		assert.Equal(t, 185.0, got.Bars[1].Low)
		assert.Equal(t, int64(0), got.Bars[1].Volume)
		assert.True(t, got.Bars[1].HasVolume)
	})
}

func TestOptionsChain(t *testing.T) {
	contract := model.OptionContract{ContractSymbol: "AAPL240119C00190000", Strike: 190}

	t.Run("empty chain rejected", func(t *testing.T) {
		assert.Nil(t, OptionsChain(nil))
		assert.Nil(t, OptionsChain(&model.OptionsChain{Symbol: "AAPL"}))
	})

	t.Run("expirations without contracts dropped", func(t *testing.T) {
		c := &model.OptionsChain{
			Symbol: "AAPL",
			Expirations: map[string]model.ExpirationChain{
				"2024-01-19": {Calls: []model.OptionContract{contract}},
				"2024-02-16": {},
			},
		}
		got := OptionsChain(c)
		require.NotNil(t, got)
		assert.Len(t, got.Expirations, 1)
		assert.Contains(t, got.Expirations, "2024-01-19")
	})

	t.Run("puts alone keep an expiration", func(t *testing.T) {
		c := &model.OptionsChain{
			Symbol: "AAPL",
			Expirations: map[string]model.ExpirationChain{
				"2024-01-19": {Puts: []model.OptionContract{contract}},
			},
		}
		require.NotNil(t, OptionsChain(c))
	})

	t.Run("nothing survives", func(t *testing.T) {
		c := &model.OptionsChain{
			Symbol:      "AAPL",
			Expirations: map[string]model.ExpirationChain{"2024-01-19": {}, "2024-02-16": {}},
		}
		assert.Nil(t, OptionsChain(c))
	})
}

func TestFiling(t *testing.T) {
	complete := model.Filing{
		Ticker:          "AAPL",
		CIK:             "0000320193",
		Form:            "10-K",
		AccessionNumber: "0000320193-23-000106",
		FilingDate:      "2023-11-03",
		PrimaryDocument: "aapl-20230930.htm",
	}

	t.Run("complete filing accepted", func(t *testing.T) {
		f := complete
		assert.NotNil(t, Filing(&f))
	})

	t.Run("nil rejected", func(t *testing.T) {
		assert.Nil(t, Filing(nil))
	})

	for _, tt := range []struct {
		name   string
		mutate func(*model.Filing)
	}{
		{"missing accession number", func(f *model.Filing) { f.AccessionNumber = "" }},
		{"missing filing date", func(f *model.Filing) { f.FilingDate = "" }},
		{"missing form", func(f *model.Filing) { f.Form = "" }},
		{"missing primary document", func(f *model.Filing) { f.PrimaryDocument = "" }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f := complete
			tt.mutate(&f)
			assert.Nil(t, Filing(&f))
		})
	}
}
