// Package migrations holds the ledger schema and applies it with
// golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Status describes the schema version before and after Up.
type Status struct {
	Before uint
	After  uint
}

// Up applies every pending migration to db. The database handle stays open.
func Up(db *sql.DB) (Status, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return Status{}, fmt.Errorf("iofs.New: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return Status{}, fmt.Errorf("sqlite.WithInstance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return Status{}, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	var status Status
	status.Before, err = version(m)
	if err != nil {
		return status, err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return status, fmt.Errorf("m.Up: %w", err)
	}

	status.After, err = version(m)
	return status, err
}

func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("m.Version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}
