package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending migration.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err := checkVersion(version, dirty, err); err != nil {
		return err
	}
	logger.Info("migrations applied", zap.Uint("version", version))
	return nil
}

// ErrDirtySchema means a migration failed halfway and needs manual repair.
var ErrDirtySchema = errors.New("database schema is dirty")

// checkVersion refuses to serve the store on a half-applied schema.
func checkVersion(version uint, dirty bool, err error) error {
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return fmt.Errorf("no migration applied: %w", err)
	case err != nil:
		return fmt.Errorf("read migration version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	return nil
}
