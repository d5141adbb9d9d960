// Package validate provides stateless sanitizers for tickers, date ranges,
// and provider payloads. Payload validators repair what they can and return
// nil for payloads with no usable content; only structurally invalid input
// (bad ticker, unparseable date) is reported as an error.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trescomas/findata/internal/model"
)

// ErrInvalidInput marks a hard validation failure. Source clients fail fast
// on it; everything else degrades to empty results.
var ErrInvalidInput = errors.New("invalid input")

const (
	dateLayout       = "2006-01-02"
	defaultRangeFrom = "2000-01-01"
	maxTickerLen     = 10
)

// Ticker normalizes a ticker symbol to its canonical uppercase form. All
// downstream cache keys and store keys use this form. Idempotent.
func Ticker(s string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return "", fmt.Errorf("%w: ticker must be non-empty", ErrInvalidInput)
	}
	if len(t) > maxTickerLen {
		return "", fmt.Errorf("%w: ticker %q exceeds %d characters", ErrInvalidInput, t, maxTickerLen)
	}
	for _, r := range t {
		if !isTickerRune(r) {
			return "", fmt.Errorf("%w: ticker %q contains invalid character %q", ErrInvalidInput, t, r)
		}
	}
	return t, nil
}

func isTickerRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-':
		return true
	}
	return false
}

// DateRange validates a start/end pair in YYYY-MM-DD form. Empty start
// defaults to 2000-01-01, empty end to today. An inverted range is swapped
// rather than rejected.
func DateRange(start, end string) (string, string, error) {
	if start == "" {
		start = defaultRangeFrom
	}
	if end == "" {
		end = time.Now().UTC().Format(dateLayout)
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", "", fmt.Errorf("%w: start date %q: %v", ErrInvalidInput, start, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return "", "", fmt.Errorf("%w: end date %q: %v", ErrInvalidInput, end, err)
	}

	if from.After(to) {
		from, to = to, from
	}
	return from.Format(dateLayout), to.Format(dateLayout), nil
}

// HistoricalSeries checks that all five OHLCV columns are represented and
// repairs sparse rows in place of rejecting them: Close is forward-filled,
// a missing Open takes the row's Close, High/Low take the max/min of Open
// and Close, and Volume zero-fills. Returns nil when a required column is
// absent from the whole series or the series is empty; callers treat nil
// as "no data", not as a failure.
func HistoricalSeries(s *model.HistoricalSeries) *model.HistoricalSeries {
	if s == nil || len(s.Bars) == 0 {
		return nil
	}

	var hasOpen, hasHigh, hasLow, hasClose, hasVolume bool
	for _, b := range s.Bars {
		hasOpen = hasOpen || b.HasOpen
		hasHigh = hasHigh || b.HasHigh
		hasLow = hasLow || b.HasLow
		hasClose = hasClose || b.HasClose
		hasVolume = hasVolume || b.HasVolume
	}
	if !hasOpen || !hasHigh || !hasLow || !hasClose || !hasVolume {
		return nil
	}

	prevClose := 0.0
	havePrev := false
	for i := range s.Bars {
		b := &s.Bars[i]

		if !b.HasClose && havePrev {
			b.Close = prevClose
			b.HasClose = true
		}
		if b.HasClose {
			prevClose = b.Close
			havePrev = true
		}

		if !b.HasOpen && b.HasClose {
			b.Open = b.Close
			b.HasOpen = true
		}
		if !b.HasHigh && b.HasOpen && b.HasClose {
			b.High = max(b.Open, b.Close)
			b.HasHigh = true
		}
		if !b.HasLow && b.HasOpen && b.HasClose {
			b.Low = min(b.Open, b.Close)
			b.HasLow = true
		}
		if !b.HasVolume {
			b.Volume = 0
			b.HasVolume = true
		}
	}

	return s
}

// OptionsChain drops expirations with neither calls nor puts and returns
// nil when nothing survives.
func OptionsChain(c *model.OptionsChain) *model.OptionsChain {
	if c == nil || len(c.Expirations) == 0 {
		return nil
	}

	valid := make(map[string]model.ExpirationChain, len(c.Expirations))
	for date, chain := range c.Expirations {
		if len(chain.Calls) > 0 || len(chain.Puts) > 0 {
			valid[date] = chain
		}
	}
	if len(valid) == 0 {
		return nil
	}

	c.Expirations = valid
	return c
}

// Filing requires the accession number, filing date, form type, and primary
// document all to be present. Returns nil otherwise.
func Filing(f *model.Filing) *model.Filing {
	if f == nil {
		return nil
	}
	if f.AccessionNumber == "" || f.FilingDate == "" || f.Form == "" || f.PrimaryDocument == "" {
		return nil
	}
	return f
}
