package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

func commands(e *env) []subcommands.Command {
	return []subcommands.Command{
		&holdingsCmd{env: e},
		&addCmd{env: e},
		&removeCmd{env: e},
		&valueCmd{env: e},
		&lookupCmd{env: e},
	}
}

type holdingsCmd struct {
	env  *env
	json bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list stored holdings without pricing them" }
func (*holdingsCmd) Usage() string {
	return `holdings [-json]

  Lists every stored lot in the order it was added.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print JSON instead of a table.")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, done, err := c.env.open(ctx, false)
	if err != nil {
		return c.env.fail(err)
	}
	defer done()

	holdings := svc.Holdings()
	if c.json {
		return c.env.printJSON(holdings)
	}
	renderHoldings(c.env.out, holdings)
	return subcommands.ExitSuccess
}

type addCmd struct {
	env    *env
	ticker string
	shares float64
	price  float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a purchased lot" }
func (*addCmd) Usage() string {
	return `add -ticker <ticker> -shares <n> -price <purchase_price>

  Confirms the ticker with the price provider, then records the lot with
  today's date. Adding a ticker already held creates a separate lot.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol (required).")
	f.Float64Var(&c.shares, "shares", 0, "Number of shares, greater than zero.")
	f.Float64Var(&c.price, "price", 0, "Purchase price per share, greater than zero.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		return c.env.usage("-ticker is required")
	}

	svc, done, err := c.env.open(ctx, true)
	if err != nil {
		return c.env.fail(err)
	}
	defer done()

	h, err := svc.AddHolding(ctx, c.ticker, c.shares, c.price)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.out, "added %s: %s shares at %s\n",
		h.Ticker, formatShares(h.Shares), usdFloat(h.PurchasePrice))
	return subcommands.ExitSuccess
}

type removeCmd struct {
	env    *env
	ticker string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove every lot of a ticker" }
func (*removeCmd) Usage() string {
	return `remove -ticker <ticker>

  Drops all lots of the ticker. Removing a ticker that is not held changes
  nothing.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol (required).")
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		return c.env.usage("-ticker is required")
	}

	svc, done, err := c.env.open(ctx, false)
	if err != nil {
		return c.env.fail(err)
	}
	defer done()

	n, err := svc.RemoveHolding(ctx, c.ticker)
	if err != nil {
		return c.env.fail(err)
	}
	if n == 0 {
		fmt.Fprintf(c.env.out, "%s is not held\n", c.ticker)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(c.env.out, "removed %d lot(s)\n", n)
	return subcommands.ExitSuccess
}

type valueCmd struct {
	env  *env
	json bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "price every holding and show gains and losses" }
func (*valueCmd) Usage() string {
	return `value [-json]

  Fetches a quote for each lot and prints its value against its cost basis.
  Lots that cannot be priced are shown with the reason and left out of the
  totals.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print JSON instead of a table.")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, done, err := c.env.open(ctx, true)
	if err != nil {
		return c.env.fail(err)
	}
	defer done()

	v := svc.Value(ctx)
	if c.json {
		return c.env.printJSON(v)
	}
	renderValuation(c.env.out, v)
	return subcommands.ExitSuccess
}

type lookupCmd struct {
	env    *env
	ticker string
	json   bool
}

func (*lookupCmd) Name() string     { return "lookup" }
func (*lookupCmd) Synopsis() string { return "show the current quote for a ticker" }
func (*lookupCmd) Usage() string {
	return `lookup -ticker <ticker> [-json]

  Prints the latest quote without touching the portfolio.
`
}

func (c *lookupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol (required).")
	f.BoolVar(&c.json, "json", false, "Print JSON instead of text.")
}

func (c *lookupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		return c.env.usage("-ticker is required")
	}

	svc, done, err := c.env.open(ctx, true)
	if err != nil {
		return c.env.fail(err)
	}
	defer done()

	q, err := svc.Lookup(ctx, c.ticker)
	if err != nil {
		return c.env.fail(err)
	}
	if c.json {
		return c.env.printJSON(q)
	}
	renderQuote(c.env.out, q)
	return subcommands.ExitSuccess
}
