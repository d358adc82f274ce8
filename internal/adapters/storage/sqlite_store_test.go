package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stonktronk/internal/domain/portfolio"
)

func newSQLiteStore(t *testing.T, path string) *SQLitePortfolioStore {
	t.Helper()
	store, err := NewSQLitePortfolioStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	assertRoundTrip(t, newSQLiteStore(t, filepath.Join(t.TempDir(), "portfolio.db")))
}

func TestSQLiteStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.db")
	store := newSQLiteStore(t, path)

	p, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "load must not create the database")
}

func TestSQLiteStoreSaveReplacesRows(t *testing.T) {
	store := newSQLiteStore(t, filepath.Join(t.TempDir(), "portfolio.db"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePortfolio()))
	smaller, _ := samplePortfolio().WithoutTicker("AAPL")
	require.NoError(t, store.Save(ctx, smaller))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, "MSFT", loaded.Holdings[0].Ticker)
}

func TestSQLiteStoreSkipsMalformedRows(t *testing.T) {
	store := newSQLiteStore(t, filepath.Join(t.TempDir(), "portfolio.db"))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, samplePortfolio()))

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO holdings(seq, ticker, shares, purchase_price, date_added) VALUES
		 (10, NULL, 1, 1, '2024-01-01T00:00:00Z'),
		 (11, 'IBM', 'lots', 1, '2024-01-01T00:00:00Z'),
		 (13, 'NFLX', 'Inf', 1, '2024-01-01T00:00:00Z'),
		 (12, 'ORCL', 2, 3, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	assert.True(t, errors.Is(err, portfolio.ErrMalformedRecord))
	assert.Len(t, portfolio.MalformedRecords(err), 3)
	require.Equal(t, 4, loaded.Len())
	assert.Equal(t, "ORCL", loaded.Holdings[3].Ticker)
}

func TestSQLiteStoreNotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.db")
	require.NoError(t, os.WriteFile(path, []byte("this is definitely not a sqlite database file, just text padding it out"), 0o644))
	store := newSQLiteStore(t, path)

	p, err := store.Load(context.Background())
	assert.True(t, errors.Is(err, portfolio.ErrCorruptStore), "got %v", err)
	assert.Equal(t, 0, p.Len())
}

func TestSQLiteStoreLoadsReadOnlyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.db")
	ctx := context.Background()
	require.NoError(t, newSQLiteStore(t, path).Save(ctx, samplePortfolio()))

	ro := newSQLiteStore(t, "file:"+path+"?mode=ro")
	loaded, err := ro.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePortfolio().Len(), loaded.Len())
}

func TestSQLiteStoreLoadWithoutTableDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.db")
	ctx := context.Background()
	other := newSQLiteStore(t, path)
	_, err := other.db.ExecContext(ctx, "CREATE TABLE notes (body TEXT);")
	require.NoError(t, err)

	ro := newSQLiteStore(t, "file:"+path+"?mode=ro")
	p, err := ro.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	var tables int
	require.NoError(t, other.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE name = 'holdings';").Scan(&tables))
	assert.Zero(t, tables)
}
