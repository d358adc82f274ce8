package storage

import (
	"fmt"
	"io"
	"strings"

	"stonktronk/internal/ports"
)

const (
	BackendFile   = "file"
	BackendJSON   = "json"
	BackendGzip   = "gzip"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultPath is used when a file backend is named without a path.
const DefaultPath = "portfolio.json"

// NewPortfolioStore returns a store for the provided backend spec.
// Examples:
//   - "file:portfolio.json"
//   - "json:/tmp/portfolio.json"
//   - "gzip:portfolio.json.gz"
//   - "sqlite:portfolio.db"
//   - "memory"
//
// If no backend is specified, the argument is treated as a JSON file path.
func NewPortfolioStore(spec string) (*StoreWithInfo, error) {
	backend, arg := parseSpec(spec)

	switch backend {
	case BackendMemory:
		return &StoreWithInfo{Backend: BackendMemory, Store: NewMemoryPortfolioStore()}, nil
	case BackendFile, BackendJSON:
		path := orDefault(arg, DefaultPath)
		return &StoreWithInfo{Backend: BackendFile, Location: path, Store: NewFilePortfolioStore(path)}, nil
	case BackendGzip:
		path := orDefault(arg, DefaultPath+".gz")
		return &StoreWithInfo{Backend: BackendGzip, Location: path, Store: NewGzipPortfolioStore(path)}, nil
	case BackendSQLite:
		path := orDefault(arg, "portfolio.db")
		store, err := NewSQLitePortfolioStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", path, err)
		}
		return &StoreWithInfo{Backend: BackendSQLite, Location: path, Store: store}, nil
	default:
		return nil, fmt.Errorf("unsupported portfolio backend: %s", backend)
	}
}

type StoreWithInfo struct {
	Backend  string
	Location string
	Store    ports.PortfolioStore
}

// Close releases the backend if it holds resources.
func (s *StoreWithInfo) Close() error {
	if c, ok := s.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *StoreWithInfo) String() string {
	if s.Location == "" {
		return s.Backend
	}
	return s.Backend + ":" + s.Location
}

func parseSpec(spec string) (backend, arg string) {
	if spec == "" {
		return BackendFile, DefaultPath
	}

	if !strings.Contains(spec, ":") {
		backend = strings.ToLower(spec)
		switch backend {
		case BackendMemory, BackendFile, BackendJSON, BackendGzip, BackendSQLite:
			return backend, ""
		default:
			// Treat the entire string as a file path for backward compatibility.
			return BackendFile, spec
		}
	}

	parts := strings.SplitN(spec, ":", 2)
	backend = strings.ToLower(parts[0])
	arg = parts[1]
	return backend, arg
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
