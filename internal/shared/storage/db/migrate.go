package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"resume-builder/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// migrationLogger sends goose output to the structured log.
type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...interface{}) {
	telemetry.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrate"})
}

func (migrationLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrate"})
	telemetry.Sync()
	os.Exit(1)
}

func setupGoose() error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(migrationLogger{})
	return goose.SetDialect("postgres")
}

// RunMigrations brings the resumes and resume_exports tables up to date.
// A nil database (memory storage) is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, migrationsDir)
}

// SchemaVersion reports the last applied migration.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
