package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onconet/healthai/internal/application/dashboard"
	"github.com/onconet/healthai/pkg/errors"
)

// AnalyticsHandler exposes the per-patient and cohort-level views computed
// from cached task results.
type AnalyticsHandler struct {
	svc *dashboard.Service
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(svc *dashboard.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// stageQuery reads the three stage labels from query parameters.
func stageQuery(c *gin.Context) (string, string, string, bool) {
	t, n, m := c.Query("t"), c.Query("n"), c.Query("m")
	if t == "" || n == "" || m == "" {
		respondError(c, errors.InvalidParam("t, n and m stage labels are required"))
		return "", "", "", false
	}
	return t, n, m, true
}

// SimilarProfile resolves the survival curve of the cluster nearest to the
// given patient stage.
// GET /api/v1/analytics/profile?t=T1&n=N0&m=M0
func (h *AnalyticsHandler) SimilarProfile(c *gin.Context) {
	t, n, m, ok := stageQuery(c)
	if !ok {
		return
	}
	view, err := h.svc.SimilarityProfile(c.Request.Context(), t, n, m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PredictSurvival evaluates the fitted survival model on the given patient
// stage.
// GET /api/v1/analytics/survival?t=T1&n=N0&m=M0
func (h *AnalyticsHandler) PredictSurvival(c *gin.Context) {
	t, n, m, ok := stageQuery(c)
	if !ok {
		return
	}
	view, err := h.svc.PredictSurvival(c.Request.Context(), t, n, m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Statistics returns the reshaped federated statistics tables for one stage
// axis.
// GET /api/v1/analytics/statistics?axis=t
func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	axis := c.DefaultQuery("axis", "t")
	view, err := h.svc.Statistics(c.Request.Context(), axis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// LocalStatistics computes statistics over the locally configured dataset.
// GET /api/v1/analytics/statistics/local
func (h *AnalyticsHandler) LocalStatistics(c *gin.Context) {
	centres, err := h.svc.LocalStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"centres": centres})
}

// StageLabels lists the valid stage labels per axis, in dropdown order.
// GET /api/v1/analytics/stages
func (h *AnalyticsHandler) StageLabels(c *gin.Context) {
	labels, err := h.svc.StageLabels()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stages": labels})
}

//Personal.AI order the ending
