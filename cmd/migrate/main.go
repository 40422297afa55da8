package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
)

func main() {
	version, err := run(context.Background(), config.Load())
	if err != nil {
		telemetry.Error("migrate failed", map[string]any{"error": err.Error()})
		telemetry.Sync()
		os.Exit(1)
	}
	telemetry.Info("migrations applied", map[string]any{"version": version})
	telemetry.Sync()
}

func run(ctx context.Context, cfg config.Config) (int64, error) {
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return 0, err
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return 0, err
	}
	return db.SchemaVersion(ctx, sqlDB)
}
