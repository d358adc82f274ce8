package ports

import (
	"context"
	"errors"

	"stonktronk/internal/domain/portfolio"
)

// ErrQuoteNotFound is returned by a PriceProvider that does not know the
// ticker.
var ErrQuoteNotFound = errors.New("quote not found")

// PortfolioStore persists the whole portfolio. Load always returns a non-nil
// portfolio; see the portfolio error types for the meaning of its error.
type PortfolioStore interface {
	Load(ctx context.Context) (*portfolio.Portfolio, error)
	Save(ctx context.Context, p *portfolio.Portfolio) error
}

// PriceProvider returns the current quote for a ticker, or ErrQuoteNotFound.
type PriceProvider interface {
	Quote(ctx context.Context, ticker string) (portfolio.Quote, error)
}
