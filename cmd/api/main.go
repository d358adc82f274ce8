package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"stonktronk/internal/bootstrap"
	"stonktronk/internal/config"
	"stonktronk/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(l)

	if err := cfg.RequireAPIKey(); err != nil {
		l.Fatal().Err(err).Msg("price provider unavailable")
	}

	rt, err := bootstrap.New(cfg, l, nil)
	if err != nil {
		l.Fatal().Err(err).Msg("invalid repository")
	}
	defer rt.Close()

	if err := rt.Load(context.Background(), cfg.IgnoreCorrupt); err != nil {
		l.Fatal().Err(err).Str("store", rt.Store.String()).Msg("cannot load portfolio")
	}

	srv := newServer(cfg.APIAddr, rt.Service, l)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server error")
		}
	case sig := <-stop:
		l.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			l.Error().Err(err).Msg("shutdown")
		}
	}
}
