package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/account"
	"resume-builder/internal/exports"
	"resume-builder/internal/livepreview"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/export"
	"resume-builder/resume/render"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	Registry       *render.Registry
	Hub            *livepreview.Hub
	ResumesRepo    resumes.Repo
	ExportsRepo    exports.Repo
	ResumesService *resumes.Service
	ExportsService *exports.Service
	AccountService *account.Service
	AccountHandler *account.Handler
	ResumesHandler *resumes.Handler
	ExportsHandler *exports.Handler
	LiveHandler    *livepreview.Handler

	stop context.CancelFunc
}

// Build prepares dependencies and wires routes. The live preview hub runs
// until Close.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	runCtx, stop := context.WithCancel(ctx)
	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Registry: render.NewRegistry(nil),
		stop:     stop,
	}
	app.Hub = livepreview.NewHub(app.Registry)
	go app.Hub.Run(runCtx)

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Health:         health.NewService(app.DB),
		AccountHandler: app.AccountHandler,
		ResumeHandler:  app.ResumesHandler,
		ExportHandler:  app.ExportsHandler,
		LiveHandler:    app.LiveHandler,
		RateLimiter:    middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close stops the live preview hub and releases the database.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	telemetry.Sync()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap: DATABASE_URL empty; using in-memory repositories", nil)
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap: database connect failed; using in-memory repositories", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.ExportsRepo = &exports.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.ExportsRepo = exports.NewMemoryRepo()
	}

	app.ResumesService = resumes.NewService(app.ResumesRepo, app.Hub)
	app.ExportsService = &exports.Service{
		Resumes:  app.ResumesService,
		Registry: app.Registry,
		Pipeline: export.NewPipeline(
			export.NewChromeCapturer(app.Config.ChromePath, app.Config.ExportTimeout),
			export.NewPDFEncoder(),
		),
		Store:   app.Store,
		Records: app.ExportsRepo,
		Archive: app.Config.ExportArchive,
		Timeout: app.Config.ExportTimeout,
	}

	app.AccountService = account.NewService(app.ResumesRepo, app.ExportsRepo)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService, app.Registry)
	app.ExportsHandler = exports.NewHandler(app.ExportsService)
	app.LiveHandler = livepreview.NewHandler(app.Hub, app.ResumesService, app.Config.CORSAllowOrigin)
}
