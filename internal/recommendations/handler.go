package recommendations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assess-backend/internal/assessments"
	"assess-backend/internal/shared/server/middleware"
	"assess-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommendations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments/:id/recommendations", h.generate)
	rg.POST("/assessments/:id/recommendations/preview", h.preview)
}

type generateRequest struct {
	Types         []string `json:"types"`
	TopN          int      `json:"topN"`
	MinConfidence float64  `json:"minConfidence"`
	Overwrite     *bool    `json:"overwrite"`
}

func (h *Handler) preview(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	var req generateRequest
	_ = c.ShouldBindJSON(&req)
	types, ok := parseTypes(req.Types)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown recommendation type", nil)
		return
	}

	payload, err := h.Svc.Preview(c.Request.Context(), tenantID, assessmentID, types, req.TopN)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	respond.OK(c, payload)
}

func (h *Handler) generate(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	var req generateRequest
	_ = c.ShouldBindJSON(&req)
	types, ok := parseTypes(req.Types)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown recommendation type", nil)
		return
	}
	overwrite := true
	if req.Overwrite != nil {
		overwrite = *req.Overwrite
	}

	result, err := h.Svc.Generate(c.Request.Context(), tenantID, assessmentID, types, req.TopN, req.MinConfidence, overwrite)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	respond.OK(c, result)
}

// parseTypes normalizes requested type strings; an empty request means all types.
func parseTypes(raw []string) ([]Type, bool) {
	if len(raw) == 0 {
		return []Type{TypeCareer, TypeMajor, TypeLearning}, true
	}
	out := make([]Type, 0, len(raw))
	for _, s := range raw {
		t, ok := ParseType(s)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

func respondRecommendationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessments.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
	case errors.Is(err, ErrMissingPrerequisite):
		respond.Error(c, http.StatusConflict, "missing_prerequisite", "run scoring before requesting recommendations", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "recommendation generation failed", nil)
	}
}
