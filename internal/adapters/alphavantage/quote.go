package alphavantage

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

// Quote returns price and volume from GLOBAL_QUOTE, enriched with company
// metadata from OVERVIEW when available. USD crypto pairs are priced through
// CURRENCY_EXCHANGE_RATE and carry no metadata.
func (c *Client) Quote(ctx context.Context, ticker string) (portfolio.Quote, error) {
	ticker = portfolio.NormalizeTicker(ticker)
	if ticker == "" {
		return portfolio.Quote{}, ports.ErrQuoteNotFound
	}
	if portfolio.IsCryptoTicker(ticker) {
		return c.cryptoQuote(ctx, ticker)
	}

	data, err := c.query(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {ticker},
	})
	if err != nil {
		return portfolio.Quote{}, err
	}

	gq, _ := data["Global Quote"].(map[string]interface{})
	price, ok := parseFloat(gq["05. price"])
	if !ok || price <= 0 {
		return portfolio.Quote{}, ports.ErrQuoteNotFound
	}

	q := portfolio.Quote{
		Ticker:       ticker,
		CurrentPrice: price,
		ReceivedAt:   time.Now().UTC(),
	}
	if v, ok := parseInt(gq["06. volume"]); ok {
		q.Volume = &v
	}

	if c.overview {
		c.addOverview(ctx, &q)
	}
	return q, nil
}

// addOverview fills the optional metadata. Failures only leave fields empty.
func (c *Client) addOverview(ctx context.Context, q *portfolio.Quote) {
	data, err := c.query(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {q.Ticker},
	})
	if err != nil {
		c.log.Debug().Err(err).Str("ticker", q.Ticker).Msg("overview unavailable")
		return
	}

	if name, ok := data["Name"].(string); ok && name != "" && name != "None" {
		q.CompanyName = name
	}
	if v, ok := parseFloat(data["MarketCapitalization"]); ok && v > 0 {
		q.MarketCap = &v
	}
	if v, ok := parseFloat(data["52WeekHigh"]); ok && v > 0 {
		q.FiftyTwoWeekHigh = &v
	}
}

func (c *Client) cryptoQuote(ctx context.Context, ticker string) (portfolio.Quote, error) {
	data, err := c.query(ctx, url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {portfolio.SymbolBase(ticker)},
		"to_currency":   {"USD"},
	})
	if err != nil {
		return portfolio.Quote{}, err
	}

	rate, _ := data["Realtime Currency Exchange Rate"].(map[string]interface{})
	price, ok := parseFloat(rate["5. Exchange Rate"])
	if !ok || price <= 0 {
		return portfolio.Quote{}, ports.ErrQuoteNotFound
	}
	return portfolio.Quote{
		Ticker:       ticker,
		CurrentPrice: price,
		ReceivedAt:   time.Now().UTC(),
	}, nil
}

func parseFloat(v interface{}) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseInt(v interface{}) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}
