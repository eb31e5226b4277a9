package database

import (
	"database/sql"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationResult describes what RunMigrations did.
type MigrationResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// RunMigrations applies migrations from sourceURL (e.g. file://migrations).
// A negative steps value rolls back that many migrations; zero applies all pending ones.
func RunMigrations(databaseURL, sourceURL string, steps int) (MigrationResult, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return MigrationResult{}, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return MigrationResult{}, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("could not create migrate instance: %w", err)
	}

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to read migration version: %w", verr)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return MigrationResult{}, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return MigrationResult{}, fmt.Errorf("migration database error: %w", dbErr)
	}
	return MigrationResult{Version: version, Dirty: dirty, Changed: changed}, nil
}
