package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationsTable records which comment schema migrations have run.
const migrationsTable = "comment_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the comments schema on db up to date and returns the
// resulting version. Running it against a current schema changes nothing.
func RunMigrations(db *sql.DB) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("loading comment migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return 0, fmt.Errorf("preparing comment schema driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("preparing comment migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrating comment schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading comment schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("comment schema version %d is dirty", version)
	}

	return version, nil
}
