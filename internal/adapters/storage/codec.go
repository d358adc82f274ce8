package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"stonktronk/internal/domain/portfolio"
)

// record is the on-disk shape of a holding. Pointer fields let the decoder
// tell a missing field from a zero value; unknown fields are ignored.
type record struct {
	Ticker        *string  `json:"ticker"`
	Shares        *float64 `json:"shares"`
	PurchasePrice *float64 `json:"purchase_price"`
	DateAdded     *string  `json:"date_added"`
}

// dateLayouts are tried in order when reading date_added.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func encodeHoldings(p *portfolio.Portfolio) ([]byte, error) {
	holdings := []portfolio.Holding{}
	if p != nil && p.Holdings != nil {
		holdings = p.Holdings
	}
	return json.MarshalIndent(holdings, "", "  ")
}

// decodeHoldings parses a JSON array of records. A document that is not an
// array yields an empty portfolio and a CorruptStoreError; bad records are
// skipped and reported as joined MalformedRecordErrors.
func decodeHoldings(data []byte, location string) (*portfolio.Portfolio, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return portfolio.New(), nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return portfolio.New(), &portfolio.CorruptStoreError{Location: location, Err: err}
	}

	p := portfolio.New()
	var bad []error
	for i, msg := range raw {
		var rec record
		if err := json.Unmarshal(msg, &rec); err != nil {
			bad = append(bad, &portfolio.MalformedRecordError{Index: i, Reason: err.Error()})
			continue
		}
		h, err := rec.holding(i)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		p.Append(h)
	}
	return p, errors.Join(bad...)
}

func (r record) holding(i int) (portfolio.Holding, error) {
	malformed := func(format string, args ...any) error {
		return &portfolio.MalformedRecordError{Index: i, Reason: fmt.Sprintf(format, args...)}
	}

	switch {
	case r.Ticker == nil:
		return portfolio.Holding{}, malformed("missing ticker")
	case r.Shares == nil:
		return portfolio.Holding{}, malformed("missing shares")
	case r.PurchasePrice == nil:
		return portfolio.Holding{}, malformed("missing purchase_price")
	case r.DateAdded == nil:
		return portfolio.Holding{}, malformed("missing date_added")
	}

	ticker := portfolio.NormalizeTicker(*r.Ticker)
	if ticker == "" {
		return portfolio.Holding{}, malformed("empty ticker")
	}
	if !(*r.Shares > 0) || math.IsInf(*r.Shares, 1) {
		return portfolio.Holding{}, malformed("shares %v is not a positive number", *r.Shares)
	}
	if !(*r.PurchasePrice > 0) || math.IsInf(*r.PurchasePrice, 1) {
		return portfolio.Holding{}, malformed("purchase_price %v is not a positive number", *r.PurchasePrice)
	}
	added, err := parseDate(*r.DateAdded)
	if err != nil {
		return portfolio.Holding{}, malformed("date_added %q: %v", *r.DateAdded, err)
	}

	return portfolio.Holding{
		Ticker:        ticker,
		Shares:        *r.Shares,
		PurchasePrice: *r.PurchasePrice,
		DateAdded:     added,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
