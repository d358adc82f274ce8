package portfolio

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"stonktronk/internal/util"
)

// Sign classifies a gain or loss for display.
type Sign int

const (
	Neutral Sign = iota
	Positive
	Negative
)

func (s Sign) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

func (s Sign) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SignOf classifies d by its sign.
func SignOf(d decimal.Decimal) Sign {
	switch {
	case d.IsPositive():
		return Positive
	case d.IsNegative():
		return Negative
	default:
		return Neutral
	}
}

// ValuationRow compares one holding's basis against its market value. When
// the quote could not be obtained Err is set and the numeric fields are zero.
type ValuationRow struct {
	Holding         Holding
	Quote           *Quote
	CurrentValue    decimal.Decimal
	CostBasis       decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent decimal.NullDecimal
	// RecoveryNeededPercent is the rise needed to get back to the basis, set
	// only for losing rows that can still recover.
	RecoveryNeededPercent decimal.NullDecimal
	Err                   error
}

// PriceRow values h at q.CurrentPrice.
func PriceRow(h Holding, q Quote) ValuationRow {
	basis := h.CostBasis()
	value := h.ValueAt(q.CurrentPrice)
	gain := value.Sub(basis)

	row := ValuationRow{
		Holding:      h,
		Quote:        &q,
		CurrentValue: value,
		CostBasis:    basis,
		GainLoss:     gain,
	}
	if pct, ok := util.PercentOf(gain, basis); ok {
		row.GainLossPercent = decimal.NewNullDecimal(pct)
		if pct.IsNegative() {
			if rec, ok := util.RequiredRecoveryPct(pct.Neg()); ok {
				row.RecoveryNeededPercent = decimal.NewNullDecimal(rec)
			}
		}
	}
	return row
}

// FailedRow carries h's static fields and the quote failure.
func FailedRow(h Holding, err error) ValuationRow {
	return ValuationRow{Holding: h, Err: err}
}

func (r ValuationRow) Failed() bool { return r.Err != nil }

// Sign is Neutral for failed rows.
func (r ValuationRow) Sign() Sign {
	if r.Failed() {
		return Neutral
	}
	return SignOf(r.GainLoss)
}

// NearHigh is nil when the row failed or the 52-week high is unknown.
func (r ValuationRow) NearHigh() *bool {
	if r.Quote == nil {
		return nil
	}
	near, ok := r.Quote.NearHigh()
	if !ok {
		return nil
	}
	return &near
}

type rowJSON struct {
	Ticker                string               `json:"ticker"`
	Shares                float64              `json:"shares"`
	PurchasePrice         float64              `json:"purchase_price"`
	DateAdded             string               `json:"date_added"`
	Quote                 *Quote               `json:"quote,omitempty"`
	CurrentValue          *decimal.Decimal     `json:"current_value,omitempty"`
	CostBasis             *decimal.Decimal     `json:"cost_basis,omitempty"`
	GainLoss              *decimal.Decimal     `json:"gain_loss,omitempty"`
	GainLossPercent       *decimal.NullDecimal `json:"gain_loss_percent,omitempty"`
	RecoveryNeededPercent *decimal.Decimal     `json:"recovery_needed_percent,omitempty"`
	NearHigh              *bool                `json:"near_high,omitempty"`
	Sign                  Sign                 `json:"sign"`
	Error                 string               `json:"error,omitempty"`
}

// MarshalJSON omits every numeric field of a failed row.
func (r ValuationRow) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		Ticker:        r.Holding.Ticker,
		Shares:        r.Holding.Shares,
		PurchasePrice: r.Holding.PurchasePrice,
		DateAdded:     r.Holding.DateAdded.Format(timeLayout),
		Sign:          r.Sign(),
	}
	if r.Failed() {
		out.Error = r.Err.Error()
		return json.Marshal(out)
	}
	out.Quote = r.Quote
	out.CurrentValue = &r.CurrentValue
	out.CostBasis = &r.CostBasis
	out.GainLoss = &r.GainLoss
	out.GainLossPercent = &r.GainLossPercent
	if r.RecoveryNeededPercent.Valid {
		out.RecoveryNeededPercent = &r.RecoveryNeededPercent.Decimal
	}
	out.NearHigh = r.NearHigh()
	return json.Marshal(out)
}
