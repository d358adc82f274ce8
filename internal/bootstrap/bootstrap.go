// Package bootstrap turns a config.Config into a ready PortfolioService. The
// CLI and the API server share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"stonktronk/internal/adapters/alphavantage"
	"stonktronk/internal/adapters/storage"
	"stonktronk/internal/app"
	"stonktronk/internal/config"
	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

// Runtime is a wired service and the store behind it.
type Runtime struct {
	Service *app.PortfolioService
	Store   *storage.StoreWithInfo
	Log     zerolog.Logger
}

func (r *Runtime) Close() error {
	return r.Store.Close()
}

// New opens the configured store and builds the service around it. pricer
// may be nil, in which case the Alpha Vantage client is used.
func New(cfg *config.Config, log zerolog.Logger, pricer ports.PriceProvider) (*Runtime, error) {
	store, err := storage.NewPortfolioStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if pricer == nil {
		pricer = alphavantage.New(cfg.AlphaVantageKey,
			alphavantage.WithBaseURL(cfg.AlphaVantageURL),
			alphavantage.WithRatePerMinute(cfg.QuoteRatePerMinute),
			alphavantage.WithLogger(log),
		)
	}

	svc := app.NewPortfolioService(store.Store, pricer,
		app.WithQuoteTimeout(cfg.QuoteTimeout),
		app.WithWorkers(cfg.QuoteWorkers),
		app.WithLogger(log),
	)
	log.Debug().Str("store", store.String()).Msg("store opened")
	return &Runtime{Service: svc, Store: store, Log: log}, nil
}

// Load reads the stored portfolio into the service. Skipped records are
// never fatal. A corrupt store is fatal unless ignoreCorrupt is set, in
// which case the service starts empty and the next save overwrites it.
func (r *Runtime) Load(ctx context.Context, ignoreCorrupt bool) error {
	err := r.Service.Load(ctx)
	switch {
	case err == nil, errors.Is(err, portfolio.ErrMalformedRecord):
		return nil
	case errors.Is(err, portfolio.ErrCorruptStore) && ignoreCorrupt:
		r.Log.Warn().Str("store", r.Store.String()).Msg("ignoring unreadable store")
		return nil
	}
	return err
}
