package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/trescomas/findata/internal/metrics"
	"github.com/trescomas/findata/internal/model"
)

// SaveComposite upserts a composite record keyed by ticker. Reports
// success; a failure is logged and counted, never propagated.
func (s *Store) SaveComposite(ctx context.Context, rec *model.CompositeRecord) bool {
	if rec == nil || rec.Symbol == "" {
		return false
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		s.fail("marshal composite", rec.Symbol, err)
		return false
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO composite_records (ticker, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (ticker) DO UPDATE
		SET record = EXCLUDED.record, updated_at = now()
	`, rec.Symbol, doc)
	if err != nil {
		s.fail("save composite", rec.Symbol, err)
		return false
	}

	s.logger.Debug("saved composite", "ticker", rec.Symbol)
	return true
}

// SaveFilings upserts filing metadata keyed by accession number. Rows
// already present are refreshed, so re-aggregating a ticker never
// duplicates its filings. Reports whether every row was written.
func (s *Store) SaveFilings(ctx context.Context, filings []model.Filing) bool {
	if len(filings) == 0 {
		return true
	}

	batch := &pgx.Batch{}
	for i := range filings {
		f := &filings[i]
		doc, err := json.Marshal(f)
		if err != nil {
			s.fail("marshal filing", f.AccessionNumber, err)
			return false
		}
		batch.Queue(`
			INSERT INTO sec_filings (accession_number, ticker, form, filing_date, doc, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (accession_number) DO UPDATE
			SET ticker = EXCLUDED.ticker, form = EXCLUDED.form,
			    filing_date = EXCLUDED.filing_date, doc = EXCLUDED.doc,
			    updated_at = now()
		`, f.AccessionNumber, f.Ticker, f.Form, f.FilingDate, doc)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range filings {
		if _, err := results.Exec(); err != nil {
			s.fail("save filing", filings[i].AccessionNumber, err)
			return false
		}
	}

	s.logger.Debug("saved filings", "ticker", filings[0].Ticker, "count", len(filings))
	return true
}

// SaveOptionsSnapshot upserts the latest options chain for a ticker.
func (s *Store) SaveOptionsSnapshot(ctx context.Context, chain *model.OptionsChain) bool {
	if chain == nil || chain.Symbol == "" {
		return false
	}

	doc, err := json.Marshal(chain)
	if err != nil {
		s.fail("marshal options snapshot", chain.Symbol, err)
		return false
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO options_snapshots (ticker, chain, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (ticker) DO UPDATE
		SET chain = EXCLUDED.chain, updated_at = now()
	`, chain.Symbol, doc)
	if err != nil {
		s.fail("save options snapshot", chain.Symbol, err)
		return false
	}

	s.logger.Debug("saved options snapshot", "ticker", chain.Symbol)
	return true
}

func (s *Store) fail(op, key string, err error) {
	s.logger.Error(op+" failed", "key", key, "error", err)
	metrics.PersistFailures.Inc()
}
