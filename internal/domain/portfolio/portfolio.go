package portfolio

import "strings"

// Portfolio is the ordered list of holdings. Order is insertion order and is
// preserved across load and save.
type Portfolio struct {
	Holdings []Holding `json:"holdings"`
}

func New(holdings ...Holding) *Portfolio {
	return &Portfolio{Holdings: append([]Holding(nil), holdings...)}
}

// Len is the number of holdings.
func (p *Portfolio) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Holdings)
}

// Clone returns a deep copy. Holding has no reference fields, so copying the
// slice is enough.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return New()
	}
	return New(p.Holdings...)
}

// Append adds h at the end.
func (p *Portfolio) Append(h Holding) {
	p.Holdings = append(p.Holdings, h)
}

// WithoutTicker returns a copy that drops every lot of ticker, compared
// case-insensitively, together with the number of lots dropped.
func (p *Portfolio) WithoutTicker(ticker string) (*Portfolio, int) {
	t := NormalizeTicker(ticker)
	out := &Portfolio{Holdings: make([]Holding, 0, p.Len())}
	removed := 0
	for _, h := range p.Holdings {
		if strings.EqualFold(h.Ticker, t) {
			removed++
			continue
		}
		out.Holdings = append(out.Holdings, h)
	}
	return out, removed
}
