package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/stephenafamo/bob"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/storage/migrations"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

// Storage owns the SQLite handle. Reads go through Reader; every mutation
// goes through a Writer bound to one immediate transaction.
type Storage struct {
	DB     *sql.DB
	db     bob.DB
	Reader *Reader
}

// DSN builds the connection string for path. Writes take the database lock
// when the transaction begins, and a held lock waits busyTimeoutMs before
// failing with SQLITE_BUSY.
func DSN(path string, busyTimeoutMs int) string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs))
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_txlock", "immediate")
	return "file:" + path + "?" + params.Encode()
}

func NewStorage(env *config.Config) (*Storage, error) {
	if dir := filepath.Dir(env.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", DSN(env.DBPath, env.BusyTimeoutMs))
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, sqlerr.Classify("storage.Ping", err)
	}

	db := bob.NewDB(sqlDB)
	return &Storage{
		DB:     sqlDB,
		db:     db,
		Reader: NewReader(db),
	}, nil
}

// Migrate brings the schema up to date.
func (s *Storage) Migrate() (migrations.Status, error) {
	return migrations.Up(s.DB)
}

// Write begins a transaction and returns a Writer over it. The caller must
// Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sqlerr.Classify("storage.Write", err)
	}
	writer := NewWriter(tx)
	return &writer, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
