// Package app owns the in-memory portfolio and exposes the operations a
// presentation layer calls: load, add, remove, evaluate and lookup.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/metrics"
	"stonktronk/internal/ports"
)

const (
	DefaultQuoteTimeout = 10 * time.Second
	DefaultWorkers      = 4
)

// PortfolioService holds the portfolio for one user. Mutations run one at a
// time under the write lock and persist before returning; evaluations copy
// the portfolio under the read lock and price the copy.
type PortfolioService struct {
	store    ports.PortfolioStore
	pricer   ports.PriceProvider
	valuator *valuator
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu sync.RWMutex
	p  *portfolio.Portfolio
}

type Option func(*PortfolioService)

// WithQuoteTimeout bounds every single provider query.
func WithQuoteTimeout(d time.Duration) Option {
	return func(s *PortfolioService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers bounds how many quotes an evaluation runs at once.
func WithWorkers(n int) Option {
	return func(s *PortfolioService) { s.valuator.workers = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *PortfolioService) { s.log = l }
}

// WithClock replaces time.Now for dateAdded stamps.
func WithClock(now func() time.Time) Option {
	return func(s *PortfolioService) { s.now = now }
}

func NewPortfolioService(store ports.PortfolioStore, pricer ports.PriceProvider, opts ...Option) *PortfolioService {
	s := &PortfolioService{
		store:   store,
		pricer:  pricer,
		timeout: DefaultQuoteTimeout,
		now:     time.Now,
		log:     zerolog.Nop(),
		p:       portfolio.New(),
	}
	s.valuator = &valuator{quote: s.quote, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "portfolio").Logger()
	s.valuator.log = s.log
	return s
}

// Load replaces the in-memory portfolio with the stored one. The portfolio
// is always replaced, even when err is non-nil: on a CorruptStoreError it is
// empty, on MalformedRecordErrors it holds the readable records. The caller
// decides whether to carry on.
func (s *PortfolioService) Load(ctx context.Context) error {
	p, err := s.store.Load(ctx)
	if p == nil {
		p = portfolio.New()
	}

	s.mu.Lock()
	s.p = p
	s.mu.Unlock()

	switch {
	case err == nil:
		s.log.Info().Int("holdings", p.Len()).Msg("portfolio loaded")
	case errors.Is(err, portfolio.ErrCorruptStore):
		s.log.Warn().Err(err).Msg("portfolio store is corrupt, starting empty")
	case errors.Is(err, portfolio.ErrMalformedRecord):
		bad := portfolio.MalformedRecords(err)
		for _, m := range bad {
			s.log.Warn().Int("record", m.Index).Str("reason", m.Reason).Msg("skipped stored holding")
		}
		s.log.Info().Int("holdings", p.Len()).Int("skipped", len(bad)).Msg("portfolio loaded")
	default:
		s.log.Error().Err(err).Msg("portfolio load failed")
	}
	return err
}

// Holdings returns a copy of the holdings in portfolio order.
func (s *PortfolioService) Holdings() []portfolio.Holding {
	return s.Snapshot().Holdings
}

// Snapshot returns a deep copy of the current portfolio.
func (s *PortfolioService) Snapshot() *portfolio.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.p.Clone()
}

// AddHolding validates the lot, confirms the ticker with the price provider
// and appends it. Nothing changes, in memory or in the store, unless every
// step including the save succeeds.
func (s *PortfolioService) AddHolding(ctx context.Context, ticker string, shares, purchasePrice float64) (portfolio.Holding, error) {
	h, err := portfolio.NewHolding(ticker, shares, purchasePrice, s.now())
	if err != nil {
		return portfolio.Holding{}, err
	}

	if _, err := s.quote(ctx, h.Ticker); err != nil {
		return portfolio.Holding{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.p.Clone()
	next.Append(h)
	if err := s.save(ctx, next); err != nil {
		return portfolio.Holding{}, err
	}
	s.p = next

	s.log.Info().
		Str("ticker", h.Ticker).
		Float64("shares", h.Shares).
		Float64("purchase_price", h.PurchasePrice).
		Msg("holding added")
	return h, nil
}

// RemoveHolding drops every lot of ticker and returns how many were dropped.
// Removing a ticker that is not held is a no-op and does not touch the store.
func (s *PortfolioService) RemoveHolding(ctx context.Context, ticker string) (int, error) {
	t := portfolio.NormalizeTicker(ticker)
	if t == "" {
		return 0, &portfolio.ValidationError{Field: "ticker", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := s.p.WithoutTicker(t)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(ctx, next); err != nil {
		return 0, err
	}
	s.p = next

	s.log.Info().Str("ticker", t).Int("lots", removed).Msg("holdings removed")
	return removed, nil
}

// Evaluate prices a snapshot of the current portfolio. It never fails as a
// whole; quote failures become error rows.
func (s *PortfolioService) Evaluate(ctx context.Context) []portfolio.ValuationRow {
	return s.valuator.Evaluate(ctx, s.Snapshot())
}

// Valuation is the result of one refresh: rows in portfolio order and the
// totals, nil when nothing could be priced.
type Valuation struct {
	Rows   []portfolio.ValuationRow `json:"rows"`
	Totals *portfolio.Totals        `json:"totals"`
}

// Value evaluates the portfolio and summarizes the rows.
func (s *PortfolioService) Value(ctx context.Context) Valuation {
	rows := s.Evaluate(ctx)
	v := Valuation{Rows: rows}
	if t, ok := portfolio.Summarize(rows); ok {
		v.Totals = &t
	}
	return v
}

// Lookup returns the current quote for ticker without touching the
// portfolio.
func (s *PortfolioService) Lookup(ctx context.Context, ticker string) (portfolio.Quote, error) {
	t := portfolio.NormalizeTicker(ticker)
	if t == "" {
		return portfolio.Quote{}, &portfolio.ValidationError{Field: "ticker", Reason: "must not be empty"}
	}
	return s.quote(ctx, t)
}

func (s *PortfolioService) save(ctx context.Context, p *portfolio.Portfolio) error {
	err := s.store.Save(ctx, p)
	metrics.StoreSaves.WithLabelValues(metrics.SaveResult(err)).Inc()
	if err == nil {
		return nil
	}

	s.log.Error().Err(err).Int("holdings", p.Len()).Msg("portfolio save failed")
	if !errors.Is(err, portfolio.ErrPersistence) {
		err = &portfolio.PersistenceError{Op: "save", Err: err}
	}
	return err
}
