package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assess-backend/internal/recommendations"
	"assess-backend/internal/scoring"
	"assess-backend/internal/services/health"
	"assess-backend/internal/shared/config"
	"assess-backend/internal/shared/metrics"
	"assess-backend/internal/shared/server/middleware"
	"assess-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up. Dependencies are
// constructed in bootstrap so tests can swap repositories freely.
type RouterDeps struct {
	Config                config.Config
	Health                *health.Service
	ScoringHandler        *scoring.Handler
	RecommendationHandler *recommendations.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})

	scoped := api.Group("")
	scoped.Use(
		middleware.Tenant(deps.Config.DefaultTenant),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: recomputeGroup,
			Rules: map[string]middleware.RateLimitRule{
				// Recompute walks every submitted assessment in the tenant;
				// keep callers from stacking runs.
				"RECOMPUTE": {Rate: 0.2, Burst: 2},
			},
		}),
	)
	deps.ScoringHandler.RegisterRoutes(scoped)
	deps.RecommendationHandler.RegisterRoutes(scoped)

	return r
}

func recomputeGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/scoring/recompute" {
		return "RECOMPUTE"
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
