package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

type fakePricer struct {
	mu          sync.Mutex
	prices      map[string]float64
	errs        map[string]error
	delay       time.Duration
	hang        map[string]bool // ignore the context and never answer
	calls       int
	inFlight    int
	maxInFlight int
}

func newFakePricer(prices map[string]float64) *fakePricer {
	return &fakePricer{prices: prices, errs: map[string]error{}, hang: map[string]bool{}}
}

func (f *fakePricer) Quote(ctx context.Context, ticker string) (portfolio.Quote, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	price, ok := f.prices[ticker]
	err := f.errs[ticker]
	hang := f.hang[ticker]
	delay := f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if hang {
		select {}
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return portfolio.Quote{}, err
	}
	if !ok {
		return portfolio.Quote{}, ports.ErrQuoteNotFound
	}
	return portfolio.Quote{Ticker: ticker, CurrentPrice: price}, nil
}

func (f *fakePricer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStore records saves and can be told to fail them or to return a load
// error.
type fakeStore struct {
	mu      sync.Mutex
	saved   *portfolio.Portfolio
	saves   int
	saveErr error
	loadErr error
}

func (s *fakeStore) Load(ctx context.Context) (*portfolio.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved.Clone(), s.loadErr
}

func (s *fakeStore) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = p.Clone()
	s.saves++
	return nil
}

func (s *fakeStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

var errDiskFull = errors.New("disk full")
