package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

// FilePortfolioStore keeps the portfolio as a JSON array in a single file.
type FilePortfolioStore struct {
	path string
	mu   sync.RWMutex
}

var _ ports.PortfolioStore = (*FilePortfolioStore)(nil)

func NewFilePortfolioStore(path string) *FilePortfolioStore {
	return &FilePortfolioStore{path: path}
}


func (s *FilePortfolioStore) Load(ctx context.Context) (*portfolio.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return portfolio.New(), nil
	}
	if err != nil {
		return portfolio.New(), &portfolio.PersistenceError{Op: "load", Err: err}
	}
	return decodeHoldings(data, s.path)
}

func (s *FilePortfolioStore) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeHoldings(p)
	if err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	return nil
}
