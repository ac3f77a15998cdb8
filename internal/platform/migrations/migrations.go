// Package migrations owns the relational schema shared by the catalog and orders adapters.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/database"
)

//go:embed sql/postgres/*.sql sql/mysql/*.sql
var files embed.FS

// Migrator applies the embedded migrations of one dialect.
type Migrator struct {
	m *migrate.Migrate
}

// Open connects a dedicated database/sql handle for migrations. Close releases it.
func Open(cfg database.Config) (*Migrator, error) {
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}
	if err := cfg.RegisterTLS(); err != nil {
		return nil, err
	}
	db, err := sql.Open(string(cfg.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s for migrations: %w", cfg.Driver, err)
	}
	m, err := New(db, cfg.Driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// New wraps an open handle. The migrator takes ownership of db.
func New(db *sql.DB, driver database.Driver) (*Migrator, error) {
	src, err := iofs.New(files, "sql/"+string(driver))
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", driver, err)
	}
	var target migratedb.Driver
	switch driver {
	case database.DriverPostgres:
		target, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case database.DriverMySQL:
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("prepare %s migrations: %w", driver, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, string(driver), target)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return nil
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down %d: %w", steps, err)
	}
	return nil
}

// Version reports the applied schema version; zero with no error means a fresh database.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Run opens, applies and closes in one step.
func Run(cfg database.Config) error {
	m, err := Open(cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
