package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"stonktronk/internal/app"
	"stonktronk/internal/bootstrap"
	"stonktronk/internal/config"
	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/logger"
)

// env is what every command shares: output streams and a way to get a loaded
// service.
type env struct {
	out, errOut   io.Writer
	ignoreCorrupt bool

	// open returns a loaded service and a func releasing it. needQuotes is
	// set by commands that talk to the price provider.
	open func(ctx context.Context, needQuotes bool) (*app.PortfolioService, func(), error)
}

func newEnv(out, errOut io.Writer) *env {
	e := &env{out: out, errOut: errOut}
	e.open = e.openRuntime
	return e
}

func (e *env) openRuntime(ctx context.Context, needQuotes bool) (*app.PortfolioService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if needQuotes {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, nil, err
		}
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Out: e.errOut})
	logger.SetGlobalLogger(log)

	rt, err := bootstrap.New(cfg, log, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := rt.Load(ctx, e.ignoreCorrupt); err != nil {
		_ = rt.Close()
		if errors.Is(err, portfolio.ErrCorruptStore) {
			return nil, nil, fmt.Errorf("%w (rerun with -ignore-corrupt to start over)", err)
		}
		return nil, nil, err
	}
	return rt.Service, func() { _ = rt.Close() }, nil
}

// fail reports err. Rejected input exits with a usage status, everything
// else with a plain failure.
func (e *env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.errOut, "error:", err)
	if errors.Is(err, portfolio.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func (e *env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.errOut, format+"\n", args...)
	return subcommands.ExitUsageError
}

func (e *env) printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}
