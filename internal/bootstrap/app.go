package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"assess-backend/internal/assessments"
	"assess-backend/internal/catalog"
	"assess-backend/internal/recommendations"
	"assess-backend/internal/scoring"
	"assess-backend/internal/services/health"
	"assess-backend/internal/shared/config"
	"assess-backend/internal/shared/server"
	"assess-backend/internal/shared/storage/db"
)

// App holds shared dependencies for the API process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	AssessmentsRepo       assessments.Repo
	CatalogRepo           catalog.Repo
	ScoringRepo           scoring.Repo
	RecommendationsRepo   recommendations.Repo
	ScoringService        *scoring.Service
	RecommendationService *recommendations.Service
	HealthService         *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		Health:                app.HealthService,
		ScoringHandler:        scoring.NewHandler(app.ScoringService),
		RecommendationHandler: recommendations.NewHandler(app.RecommendationService),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.AssessmentsRepo = &assessments.PGRepo{DB: app.DB}
		app.CatalogRepo = &catalog.PGRepo{DB: app.DB}
		app.ScoringRepo = &scoring.PGRepo{DB: app.DB}
		app.RecommendationsRepo = &recommendations.PGRepo{DB: app.DB}
	} else {
		assessmentsRepo := assessments.NewMemoryRepo()
		app.AssessmentsRepo = assessmentsRepo
		app.CatalogRepo = catalog.NewMemoryRepo()
		app.ScoringRepo = scoring.NewMemoryRepo(assessmentsRepo)
		app.RecommendationsRepo = recommendations.NewMemoryRepo()
	}

	app.ScoringService = &scoring.Service{
		Assessments: app.AssessmentsRepo,
		Repo:        app.ScoringRepo,
	}
	app.RecommendationService = &recommendations.Service{
		Assessments: app.AssessmentsRepo,
		Scoring:     app.ScoringRepo,
		Catalog:     app.CatalogRepo,
		Repo:        app.RecommendationsRepo,
	}
	app.HealthService = health.NewService(app.DB)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
