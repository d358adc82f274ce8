package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"stonktronk/internal/app"
)

type server struct {
	router *chi.Mux
	http   *http.Server
	svc    *app.PortfolioService
	log    zerolog.Logger
}

func newServer(addr string, svc *app.PortfolioService, log zerolog.Logger) *server {
	s := &server{
		router: chi.NewRouter(),
		svc:    svc,
		log:    log.With().Str("component", "api").Logger(),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.routes()

	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
		// valuation waits on one quote per holding
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/holdings", func(r chi.Router) {
		r.Get("/", s.handleListHoldings)
		r.Post("/", s.handleAddHolding)
		r.Delete("/{ticker}", s.handleRemoveHolding)
	})
	s.router.Get("/valuation", s.handleValuation)
	s.router.Get("/lookup/{ticker}", s.handleLookup)

	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("API listening")
	return s.http.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
