package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

// GzipPortfolioStore keeps the portfolio as gzipped JSON in a single file.
type GzipPortfolioStore struct {
	path string
	mu   sync.RWMutex
}

var _ ports.PortfolioStore = (*GzipPortfolioStore)(nil)

func NewGzipPortfolioStore(path string) *GzipPortfolioStore {
	return &GzipPortfolioStore{path: path}
}

func (s *GzipPortfolioStore) Load(ctx context.Context) (*portfolio.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return portfolio.New(), nil
	}
	if err != nil {
		return portfolio.New(), &portfolio.PersistenceError{Op: "load", Err: err}
	}
	if len(data) == 0 {
		return portfolio.New(), nil
	}

	uncompressed, err := s.inflate(data)
	if err != nil {
		return portfolio.New(), &portfolio.CorruptStoreError{Location: s.path, Err: err}
	}
	return decodeHoldings(uncompressed, s.path)
}

func (s *GzipPortfolioStore) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeHoldings(p)
	if err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	compressed, err := s.deflate(data)
	if err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	if err := writeFileAtomic(s.path, compressed, 0o644); err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *GzipPortfolioStore) deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *GzipPortfolioStore) inflate(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
