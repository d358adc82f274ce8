package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stonktronk/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRatePerMinute(0)}, opts...)
	return New("test-key", opts...)
}

func TestQuoteWithOverview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		switch r.URL.Query().Get("function") {
		case "GLOBAL_QUOTE":
			w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "150.2500", "06. volume": "5123400"}}`))
		case "OVERVIEW":
			w.Write([]byte(`{"Symbol": "AAPL", "Name": "Apple Inc", "MarketCapitalization": "2800000000000", "52WeekHigh": "199.62"}`))
		default:
			t.Errorf("unexpected function %s", r.URL.Query().Get("function"))
		}
	})

	q, err := c.Quote(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, 150.25, q.CurrentPrice)
	require.NotNil(t, q.Volume)
	assert.Equal(t, int64(5123400), *q.Volume)
	assert.Equal(t, "Apple Inc", q.CompanyName)
	require.NotNil(t, q.FiftyTwoWeekHigh)
	assert.Equal(t, 199.62, *q.FiftyTwoWeekHigh)
	require.NotNil(t, q.MarketCap)
}

func TestQuoteOverviewFailureDegrades(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "GLOBAL_QUOTE":
			w.Write([]byte(`{"Global Quote": {"05. price": "42.00"}}`))
		default:
			w.Write([]byte(`{"Symbol": "XYZ", "52WeekHigh": "None"}`))
		}
	})

	q, err := c.Quote(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, 42.0, q.CurrentPrice)
	assert.Nil(t, q.Volume)
	assert.Nil(t, q.FiftyTwoWeekHigh)
	assert.Empty(t, q.CompanyName)
	_, ok := q.NearHigh()
	assert.False(t, ok)
}

func TestQuoteNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}, WithoutOverview())

	_, err := c.Quote(context.Background(), "ZZZZZNOPE")
	assert.ErrorIs(t, err, ports.ErrQuoteNotFound)
}

func TestQuoteRateLimitNotice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`))
	}, WithoutOverview())

	_, err := c.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, errors.Is(err, ports.ErrQuoteNotFound))
}

func TestQuoteCrypto(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "BTC", r.URL.Query().Get("from_currency"))
		w.Write([]byte(`{"Realtime Currency Exchange Rate": {"5. Exchange Rate": "64000.50"}}`))
	})

	q, err := c.Quote(context.Background(), "btcusd")
	require.NoError(t, err)
	assert.Equal(t, 64000.5, q.CurrentPrice)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}, WithoutOverview())

	for i := 0; i < 3; i++ {
		_, err := c.Quote(context.Background(), "AAPL")
		require.Error(t, err)
	}

	_, err := c.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}, WithoutOverview())

	for i := 0; i < 5; i++ {
		_, err := c.Quote(context.Background(), "NOPE")
		require.ErrorIs(t, err, ports.ErrQuoteNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}
