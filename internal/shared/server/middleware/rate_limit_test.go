package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tenant("tenant-1"))
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/api/v1/scoring/recompute" {
				return "RECOMPUTE"
			}
			return ""
		},
		Rules: map[string]RateLimitRule{
			"RECOMPUTE": {Rate: 1, Burst: 2},
		},
	}))
	r.POST("/api/v1/scoring/recompute", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/api/v1/assessments/x/score", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doPost(router *gin.Engine, path, tenant string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Tenant-ID", tenant)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitThrottlesRecomputePerTenant(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	router := rateLimitedRouter(NewRateLimiter(func() time.Time { return now }))

	for i := 0; i < 2; i++ {
		if resp := doPost(router, "/api/v1/scoring/recompute", "tenant-a"); resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}
	resp := doPost(router, "/api/v1/scoring/recompute", "tenant-a")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}

	// A different tenant keeps its own bucket.
	if resp := doPost(router, "/api/v1/scoring/recompute", "tenant-b"); resp.Code != http.StatusOK {
		t.Fatalf("other tenant: expected 200, got %d", resp.Code)
	}
}

func TestRateLimitSkipsUngroupedRoutes(t *testing.T) {
	router := rateLimitedRouter(NewRateLimiter(nil))

	for i := 0; i < 5; i++ {
		if resp := doPost(router, "/api/v1/assessments/x/score", "tenant-a"); resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatal("first take should pass")
	}
	if ok, retry := limiter.Allow("k", rule); ok || retry <= 0 {
		t.Fatalf("second take should fail with retry hint, got %v", retry)
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatal("bucket should refill after waiting")
	}
}
