package repository

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Korixo/demolition-tracker/internal/common"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies any pending schema migrations against the Postgres
// database at dsn. Already up to date is not an error.
func Migrate(dsn string, logger *slog.Logger) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w: migration source: %v", common.ErrStore, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("%w: migrator: %v", common.ErrStore, err)
	}
	defer func() {
		sErr, dErr := m.Close()
		if sErr != nil {
			logger.Warn("migration source close error", "error", sErr)
		}
		if dErr != nil {
			logger.Warn("migration db close error", "error", dErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("%w: apply migrations: %v", common.ErrStore, err)
	}

	logger.Info("schema migrations applied")
	return nil
}
