package alphavantage

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"stonktronk/internal/ports"
)

const DefaultBaseURL = "https://www.alphavantage.co/query"

// Client is a PriceProvider backed by the Alpha Vantage query API. Requests
// share a token bucket sized to the account quota and a circuit breaker that
// fails fast while the API is down.
type Client struct {
	APIKey string

	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	overview bool
	log      zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithRatePerMinute caps outgoing requests. Non-positive means unlimited.
func WithRatePerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithoutOverview skips the company OVERVIEW call, leaving name, market cap
// and 52-week high empty. It halves the request count per quote.
func WithoutOverview() Option { return func(c *Client) { c.overview = false } }

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		APIKey:   apiKey,
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/5), 5),
		overview: true,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "alphavantage").Logger()
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "alphavantage",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c
}

var _ ports.PriceProvider = (*Client)(nil)
