package portfolio

import (
	"github.com/shopspring/decimal"

	"stonktronk/internal/util"
)

// Totals aggregates every successfully priced row. Failed rows never
// contribute.
type Totals struct {
	CurrentValue    decimal.Decimal `json:"current_value"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
	Sign            Sign            `json:"sign"`
	Priced          int             `json:"priced"`
	Failed          int             `json:"failed"`
}

// Summarize rolls rows into portfolio totals. ok is false when no row
// contributes a cost basis, so callers never see a zero or NaN total.
func Summarize(rows []ValuationRow) (t Totals, ok bool) {
	for _, r := range rows {
		if r.Failed() {
			t.Failed++
			continue
		}
		t.Priced++
		t.CurrentValue = t.CurrentValue.Add(r.CurrentValue)
		t.CostBasis = t.CostBasis.Add(r.CostBasis)
	}

	t.GainLoss = t.CurrentValue.Sub(t.CostBasis)
	pct, ok := util.PercentOf(t.GainLoss, t.CostBasis)
	if !ok {
		return Totals{}, false
	}
	t.GainLossPercent = pct
	t.Sign = SignOf(t.GainLoss)
	return t, true
}
