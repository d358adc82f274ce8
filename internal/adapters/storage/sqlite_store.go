package storage

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"stonktronk/internal/domain/portfolio"
	"stonktronk/internal/ports"
)

const holdingsSchema = `CREATE TABLE IF NOT EXISTS holdings (
	seq            INTEGER PRIMARY KEY,
	ticker         TEXT,
	shares         REAL,
	purchase_price REAL,
	date_added     TEXT
);`

// SQLitePortfolioStore keeps the portfolio in a SQLite database, one row per
// holding ordered by seq. Save replaces every row inside one transaction.
type SQLitePortfolioStore struct {
	path string
	db   *sql.DB
	mu   sync.RWMutex
}

var _ ports.PortfolioStore = (*SQLitePortfolioStore)(nil)

func NewSQLitePortfolioStore(path string) (*SQLitePortfolioStore, error) {
	if err := ensureSQLiteDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return &SQLitePortfolioStore{path: path, db: db}, nil
}

func (s *SQLitePortfolioStore) Close() error {
	return s.db.Close()
}

func (s *SQLitePortfolioStore) Load(ctx context.Context) (*portfolio.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists() {
		return portfolio.New(), nil
	}

	var tables int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'holdings';").Scan(&tables)
	if err != nil {
		return portfolio.New(), s.loadError(err)
	}
	if tables == 0 {
		return portfolio.New(), nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT ticker, shares, purchase_price, date_added FROM holdings ORDER BY seq;")
	if err != nil {
		return portfolio.New(), s.loadError(err)
	}
	defer rows.Close()

	p := portfolio.New()
	var bad []error
	for i := 0; rows.Next(); i++ {
		var ticker, shares, price, added sql.NullString
		if err := rows.Scan(&ticker, &shares, &price, &added); err != nil {
			bad = append(bad, &portfolio.MalformedRecordError{Index: i, Reason: err.Error()})
			continue
		}

		rec, err := rowRecord(i, ticker, shares, price, added)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		h, err := rec.holding(i)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		p.Append(h)
	}
	if err := rows.Err(); err != nil {
		return portfolio.New(), s.loadError(err)
	}
	return p, errors.Join(bad...)
}

func (s *SQLitePortfolioStore) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replaceAll(ctx, p); err != nil {
		return &portfolio.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *SQLitePortfolioStore) replaceAll(ctx context.Context, p *portfolio.Portfolio) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, holdingsSchema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM holdings;"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO holdings(seq, ticker, shares, purchase_price, date_added) VALUES(?, ?, ?, ?, ?);")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range p.Holdings {
		added := h.DateAdded.UTC().Format(time.RFC3339Nano)
		if _, err := stmt.ExecContext(ctx, i, h.Ticker, h.Shares, h.PurchasePrice, added); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLitePortfolioStore) exists() bool {
	if isMemoryDSN(s.path) {
		return true
	}
	_, err := os.Stat(sqliteFilePath(s.path))
	return !errors.Is(err, fs.ErrNotExist)
}

// loadError separates a file that is not a usable database from an I/O
// failure.
func (s *SQLitePortfolioStore) loadError(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_ERROR:
			return &portfolio.CorruptStoreError{Location: s.path, Err: err}
		}
	}
	return &portfolio.PersistenceError{Op: "load", Err: err}
}

func rowRecord(i int, ticker, shares, price, added sql.NullString) (record, error) {
	var rec record
	if ticker.Valid {
		rec.Ticker = &ticker.String
	}
	if added.Valid {
		rec.DateAdded = &added.String
	}
	for _, col := range []struct {
		name string
		v    sql.NullString
		dst  **float64
	}{
		{"shares", shares, &rec.Shares},
		{"purchase_price", price, &rec.PurchasePrice},
	} {
		if !col.v.Valid {
			continue
		}
		f, err := strconv.ParseFloat(col.v.String, 64)
		if err != nil {
			return record{}, &portfolio.MalformedRecordError{Index: i, Reason: col.name + " is not a number"}
		}
		*col.dst = &f
	}
	return rec, nil
}

func isMemoryDSN(path string) bool {
	return path == "" || strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

func sqliteFilePath(path string) string {
	path = strings.TrimPrefix(path, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}

func ensureSQLiteDir(path string) error {
	if isMemoryDSN(path) {
		return nil
	}
	dir := filepath.Dir(sqliteFilePath(path))
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
