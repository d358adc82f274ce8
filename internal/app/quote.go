package app

import (
	"context"
	"errors"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/metrics"
	"stonktronk/internal/ports"
)

type quoteResult struct {
	q   portfolio.Quote
	err error
}

// quote runs one provider query under the per-query timeout and maps the
// outcome onto NotFoundError or ProviderError. The timeout holds even for a
// provider that ignores its context.
func (s *PortfolioService) quote(ctx context.Context, ticker string) (portfolio.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan quoteResult, 1)
	go func() {
		q, err := s.pricer.Quote(ctx, ticker)
		done <- quoteResult{q, err}
	}()

	var res quoteResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	switch {
	case errors.Is(res.err, ports.ErrQuoteNotFound):
		metrics.Quotes.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return portfolio.Quote{}, &portfolio.NotFoundError{Ticker: ticker}
	case res.err != nil:
		metrics.Quotes.WithLabelValues(metrics.OutcomeError).Inc()
		return portfolio.Quote{}, &portfolio.ProviderError{Ticker: ticker, Err: res.err}
	case !(res.q.CurrentPrice > 0):
		metrics.Quotes.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return portfolio.Quote{}, &portfolio.NotFoundError{Ticker: ticker}
	}

	metrics.Quotes.WithLabelValues(metrics.OutcomeOK).Inc()
	if res.q.Ticker == "" {
		res.q.Ticker = ticker
	}
	return res.q, nil
}
