package scoring

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assess-backend/internal/assessments"
	"assess-backend/internal/shared/server/middleware"
	"assess-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the scoring service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments/:id/score", h.runScoring)
	rg.POST("/assessments/:id/score/preview", h.previewScoring)
	rg.GET("/assessments/:id/result", h.getResult)
	rg.POST("/scoring/recompute", h.recompute)
}

type runRequest struct {
	Overwrite *bool `json:"overwrite"`
}

type recomputeRequest struct {
	BatchSize int    `json:"batchSize"`
	Cursor    string `json:"cursor"`
}

func (h *Handler) runScoring(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	var req runRequest
	_ = c.ShouldBindJSON(&req)
	overwrite := true
	if req.Overwrite != nil {
		overwrite = *req.Overwrite
	}

	result, err := h.Svc.Run(c.Request.Context(), tenantID, assessmentID, overwrite)
	if err != nil {
		respondScoringError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"assessmentId": result.AssessmentID,
		"summary":      result.Summary,
		"scores":       result.Document,
	})
}

func (h *Handler) previewScoring(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	result, err := h.Svc.Preview(c.Request.Context(), tenantID, assessmentID)
	if err != nil {
		respondScoringError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"assessmentId": result.AssessmentID,
		"summary":      result.Summary,
		"scores":       result.Document,
	})
}

func (h *Handler) getResult(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	if _, err := h.Svc.Assessments.GetByID(c.Request.Context(), tenantID, assessmentID); err != nil {
		respondScoringError(c, err)
		return
	}
	snap, err := h.Svc.Repo.LatestSnapshot(c.Request.Context(), assessmentID)
	if err != nil {
		respondScoringError(c, err)
		return
	}
	respond.OK(c, snap)
}

func (h *Handler) recompute(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

	var req recomputeRequest
	_ = c.ShouldBindJSON(&req)

	processed, err := h.Svc.Recompute(c.Request.Context(), tenantID, req.BatchSize, req.Cursor)
	if err != nil {
		// Partial progress is still reported; the batch is best-effort.
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"processed": processed,
			"error":     gin.H{"code": "internal_error", "message": "recompute aborted"},
		})
		return
	}
	respond.OK(c, gin.H{"processed": processed})
}

func respondScoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessments.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
	case errors.Is(err, ErrNotSubmitted):
		respond.Error(c, http.StatusConflict, "not_submitted", "assessment has not been submitted", nil)
	case errors.Is(err, ErrNoSnapshot):
		respond.Error(c, http.StatusNotFound, "not_found", "no result snapshot for assessment", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "scoring failed", nil)
	}
}
