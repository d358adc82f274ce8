package portfolio

import "time"

// NearHighRatio is the fraction of the 52-week high at or above which a price
// counts as "near the high".
const NearHighRatio = 0.95

// Quote is transient market data for a ticker. Only CurrentPrice is
// guaranteed; the rest may be missing.
type Quote struct {
	Ticker           string    `json:"ticker"`
	CurrentPrice     float64   `json:"current_price"`
	Volume           *int64    `json:"volume,omitempty"`
	FiftyTwoWeekHigh *float64  `json:"fifty_two_week_high,omitempty"`
	MarketCap        *float64  `json:"market_cap,omitempty"`
	CompanyName      string    `json:"company_name,omitempty"`
	ReceivedAt       time.Time `json:"received_at"`
}

// NearHigh reports whether the price is within 5% of the 52-week high. ok is
// false when the high is unknown.
func (q Quote) NearHigh() (near, ok bool) {
	if q.FiftyTwoWeekHigh == nil || *q.FiftyTwoWeekHigh <= 0 {
		return false, false
	}
	high := *q.FiftyTwoWeekHigh
	return q.CurrentPrice >= NearHighRatio*high, true
}
