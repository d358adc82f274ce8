package storage

import (
	"context"
	"sync"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

// MemoryPortfolioStore keeps the portfolio in memory. Useful for tests or
// ephemeral runs where persistence is not required.
type MemoryPortfolioStore struct {
	mu    sync.RWMutex
	p     *portfolio.Portfolio
	saves int
}

var _ ports.PortfolioStore = (*MemoryPortfolioStore)(nil)

func NewMemoryPortfolioStore() *MemoryPortfolioStore {
	return &MemoryPortfolioStore{}
}

func (s *MemoryPortfolioStore) Load(ctx context.Context) (*portfolio.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.p.Clone(), nil
}

func (s *MemoryPortfolioStore) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.p = p.Clone()
	s.saves++
	return nil
}

// Saves counts successful Save calls.
func (s *MemoryPortfolioStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
