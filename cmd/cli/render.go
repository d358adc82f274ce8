package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"stonktronk/internal/app"
	"stonktronk/internal/domain/portfolio"
)

const dateLayout = "2006-01-02"

var (
	gainColor = color.New(color.FgGreen).SprintFunc()
	lossColor = color.New(color.FgRed).SprintFunc()
)

// usd renders d as dollars rounded to the cent.
func usd(d decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	cents := d.Mul(decimal.New(1, int32(cur.Fraction))).Round(0)
	return money.New(cents.IntPart(), money.USD).Display()
}

func usdFloat(f float64) string {
	return usd(decimal.NewFromFloat(f))
}

func signedUSD(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + usd(d)
	}
	return usd(d)
}

func percent(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func formatShares(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func colorize(s portfolio.Sign, text string) string {
	switch s {
	case portfolio.Positive:
		return gainColor(text)
	case portfolio.Negative:
		return lossColor(text)
	default:
		return text
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

func renderHoldings(w io.Writer, holdings []portfolio.Holding) {
	if len(holdings) == 0 {
		fmt.Fprintln(w, "no holdings")
		return
	}

	t := newTable(w, "Ticker", "Shares", "Purchase", "Cost basis", "Added")
	for _, h := range holdings {
		t.Append([]string{
			h.Ticker,
			formatShares(h.Shares),
			usdFloat(h.PurchasePrice),
			usd(h.CostBasis()),
			h.DateAdded.Local().Format(dateLayout),
		})
	}
	t.Render()
}

func signMark(s portfolio.Sign) string {
	switch s {
	case portfolio.Positive:
		return "+"
	case portfolio.Negative:
		return "-"
	default:
		return "="
	}
}

func renderValuation(w io.Writer, v app.Valuation) {
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "no holdings")
		return
	}

	t := newTable(w, "", "Ticker", "Shares", "Purchase", "Price", "Value", "Cost basis", "Gain/Loss", "%", "Note")
	for _, r := range v.Rows {
		h := r.Holding
		if r.Failed() {
			t.Append([]string{
				"ERROR", h.Ticker, formatShares(h.Shares), usdFloat(h.PurchasePrice),
				"-", "-", usd(h.CostBasis()), "-", "-", r.Err.Error(),
			})
			continue
		}

		pct := "n/a"
		if r.GainLossPercent.Valid {
			pct = colorize(r.Sign(), percent(r.GainLossPercent.Decimal))
		}
		t.Append([]string{
			colorize(r.Sign(), signMark(r.Sign())),
			h.Ticker,
			formatShares(h.Shares),
			usdFloat(h.PurchasePrice),
			usdFloat(r.Quote.CurrentPrice),
			usd(r.CurrentValue),
			usd(r.CostBasis),
			colorize(r.Sign(), signedUSD(r.GainLoss)),
			pct,
			rowNote(r),
		})
	}

	if v.Totals != nil {
		tot := v.Totals
		t.SetFooter([]string{
			colorize(tot.Sign, signMark(tot.Sign)),
			"Total", "", "", "",
			usd(tot.CurrentValue),
			usd(tot.CostBasis),
			colorize(tot.Sign, signedUSD(tot.GainLoss)),
			colorize(tot.Sign, percent(tot.GainLossPercent)),
			fmt.Sprintf("%d priced, %d failed", tot.Priced, tot.Failed),
		})
	}
	t.Render()

	if v.Totals == nil {
		fmt.Fprintln(w, "totals unavailable: nothing could be priced")
	}
}

func rowNote(r portfolio.ValuationRow) string {
	switch {
	case r.RecoveryNeededPercent.Valid:
		return "needs " + percent(r.RecoveryNeededPercent.Decimal) + " to recover"
	case r.NearHigh() != nil && *r.NearHigh():
		return "near 52w high"
	}
	return ""
}

func renderQuote(w io.Writer, q portfolio.Quote) {
	title := q.Ticker
	if q.CompanyName != "" {
		title += "  " + q.CompanyName
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  price         %s\n", usdFloat(q.CurrentPrice))
	if q.Volume != nil {
		fmt.Fprintf(w, "  volume        %d\n", *q.Volume)
	}
	if q.FiftyTwoWeekHigh != nil {
		fmt.Fprintf(w, "  52w high      %s\n", usdFloat(*q.FiftyTwoWeekHigh))
		if near, ok := q.NearHigh(); ok && near {
			fmt.Fprintln(w, "  trading near its 52-week high")
		}
	}
	if q.MarketCap != nil {
		fmt.Fprintf(w, "  market cap    %s\n", usdFloat(*q.MarketCap))
	}
}
