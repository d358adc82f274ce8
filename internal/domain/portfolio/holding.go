package portfolio

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is the persisted form of DateAdded.
const timeLayout = time.RFC3339Nano

// Holding is one purchased lot of a ticker. Several holdings may share a
// ticker; each is an independent purchase.
type Holding struct {
	Ticker        string    `json:"ticker"`
	Shares        float64   `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"`
	DateAdded     time.Time `json:"date_added"`
}

// NewHolding validates the input and builds a Holding stamped with at.
func NewHolding(ticker string, shares, purchasePrice float64, at time.Time) (Holding, error) {
	t := NormalizeTicker(ticker)
	if t == "" {
		return Holding{}, &ValidationError{Field: "ticker", Reason: "must not be empty"}
	}
	if !positiveAmount(shares) {
		return Holding{}, &ValidationError{Field: "shares", Reason: "must be greater than zero"}
	}
	if !positiveAmount(purchasePrice) {
		return Holding{}, &ValidationError{Field: "purchase price", Reason: "must be greater than zero"}
	}
	return Holding{
		Ticker:        t,
		Shares:        shares,
		PurchasePrice: purchasePrice,
		DateAdded:     at.UTC(),
	}, nil
}

// positiveAmount rejects zero, negatives, NaN and infinities.
func positiveAmount(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// NormalizeTicker trims whitespace and upper-cases a symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// CostBasis is shares × purchase price.
func (h Holding) CostBasis() decimal.Decimal {
	return decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(h.PurchasePrice))
}

// ValueAt is shares × price.
func (h Holding) ValueAt(price float64) decimal.Decimal {
	return decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(price))
}

// IsCryptoTicker reports whether ticker looks like a USD crypto pair (BTCUSD).
func IsCryptoTicker(ticker string) bool {
	t := strings.ToUpper(ticker)
	return strings.HasSuffix(t, "USD") && len(t) > 3
}

// SymbolBase strips the USD quote currency from crypto pairs.
func SymbolBase(ticker string) string {
	t := strings.ToUpper(ticker)
	if IsCryptoTicker(t) {
		return strings.TrimSuffix(t, "USD")
	}
	return t
}
