package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/metrics"
)

// valuator prices every holding of a portfolio with at most workers quotes
// in flight.
type valuator struct {
	quote   func(ctx context.Context, ticker string) (portfolio.Quote, error)
	workers int
	log     zerolog.Logger
}

// Evaluate returns one row per holding, in portfolio order. A failed quote
// only affects its own row.
func (v *valuator) Evaluate(ctx context.Context, p *portfolio.Portfolio) []portfolio.ValuationRow {
	start := time.Now()
	rows := make([]portfolio.ValuationRow, p.Len())

	var g errgroup.Group
	g.SetLimit(max(v.workers, 1))
	for i, h := range p.Holdings {
		i, h := i, h
		g.Go(func() error {
			q, err := v.quote(ctx, h.Ticker)
			if err != nil {
				v.log.Warn().Err(err).Str("ticker", h.Ticker).Msg("holding not priced")
				rows[i] = portfolio.FailedRow(h, err)
				return nil
			}
			rows[i] = portfolio.PriceRow(h, q)
			return nil
		})
	}
	_ = g.Wait()

	metrics.Evaluations.Inc()
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	v.log.Debug().Int("rows", len(rows)).Dur("took", time.Since(start)).Msg("portfolio evaluated")
	return rows
}
