package portfolio

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceRow(t *testing.T) {
	h := Holding{Ticker: "AAPL", Shares: 10, PurchasePrice: 100, DateAdded: time.Now()}
	row := PriceRow(h, Quote{Ticker: "AAPL", CurrentPrice: 150})

	require.False(t, row.Failed())
	assert.Equal(t, "1500.00", row.CurrentValue.StringFixed(2))
	assert.Equal(t, "500.00", row.GainLoss.StringFixed(2))
	require.True(t, row.GainLossPercent.Valid)
	assert.True(t, row.GainLossPercent.Decimal.Equal(dec("50")))
	assert.False(t, row.RecoveryNeededPercent.Valid)
	assert.Equal(t, Positive, row.Sign())
}

func TestPriceRowLoss(t *testing.T) {
	h := Holding{Ticker: "MSFT", Shares: 4, PurchasePrice: 100}
	row := PriceRow(h, Quote{CurrentPrice: 80})

	assert.True(t, row.GainLoss.Equal(dec("-80")))
	assert.True(t, row.GainLossPercent.Decimal.Equal(dec("-20")))
	require.True(t, row.RecoveryNeededPercent.Valid)
	assert.True(t, row.RecoveryNeededPercent.Decimal.Equal(dec("25")))
	assert.Equal(t, Negative, row.Sign())
}

func TestPriceRowZeroBasis(t *testing.T) {
	// Only reachable from hand-built portfolios, never from a validated load.
	h := Holding{Ticker: "ODD", Shares: 5, PurchasePrice: 0}
	row := PriceRow(h, Quote{CurrentPrice: 10})

	assert.True(t, row.CurrentValue.Equal(dec("50")))
	assert.False(t, row.GainLossPercent.Valid)
}

func TestFailedRow(t *testing.T) {
	h := Holding{Ticker: "GONE", Shares: 1, PurchasePrice: 1}
	row := FailedRow(h, &ProviderError{Ticker: "GONE", Err: errors.New("timeout")})

	assert.True(t, row.Failed())
	assert.Equal(t, Neutral, row.Sign())
	assert.Nil(t, row.NearHigh())

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error":"quote GONE: timeout"`)
	assert.NotContains(t, string(data), "current_value")
}

func TestNearHigh(t *testing.T) {
	high := 200.0
	near, ok := Quote{CurrentPrice: 190, FiftyTwoWeekHigh: &high}.NearHigh()
	assert.True(t, ok)
	assert.True(t, near)

	near, ok = Quote{CurrentPrice: 189.99, FiftyTwoWeekHigh: &high}.NearHigh()
	assert.True(t, ok)
	assert.False(t, near)

	_, ok = Quote{CurrentPrice: 190}.NearHigh()
	assert.False(t, ok)
}

func TestRowJSONIncludesValues(t *testing.T) {
	high := 155.0
	h := Holding{Ticker: "AAPL", Shares: 10, PurchasePrice: 100}
	row := PriceRow(h, Quote{Ticker: "AAPL", CurrentPrice: 150, FiftyTwoWeekHigh: &high})

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "1500", got["current_value"])
	assert.Equal(t, "positive", got["sign"])
	assert.Equal(t, true, got["near_high"])
	assert.NotContains(t, got, "error")
}
