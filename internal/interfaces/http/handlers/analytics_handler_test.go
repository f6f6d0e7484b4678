package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/application/dashboard"
)

func analyticsRouter(svc *dashboard.Service) *gin.Engine {
	h := NewAnalyticsHandler(svc)
	r := gin.New()
	api := r.Group("/api/v1/analytics")
	api.GET("/profile", h.SimilarProfile)
	api.GET("/survival", h.PredictSurvival)
	api.GET("/statistics", h.Statistics)
	api.GET("/statistics/local", h.LocalStatistics)
	api.GET("/stages", h.StageLabels)
	return r
}

// completeWorkflow drives one workflow to completion through the service.
func completeWorkflow(t *testing.T, svc *dashboard.Service, workflow string) {
	t.Helper()
	r := workflowRouter(svc)
	require.Equal(t, http.StatusAccepted, doRequest(r, http.MethodPost, "/api/v1/workflows/"+workflow+"/submit").Code)
	require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/api/v1/workflows/"+workflow+"/poll").Code)
}

func TestSimilarProfile_ReturnsPairedCurve(t *testing.T) {
	svc := newTestService(t, instantGateway(`{
		"centroids": [[1, 0, 0], [5, 5, 5]],
		"profiles":  [[0.9, 0.5], [0.6, 0.2]]
	}`))
	completeWorkflow(t, svc, "similarity")
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/profile?t=T1&n=N0&m=M0")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"query":[1,0,0]`)
	assert.Contains(t, rec.Body.String(), `{"day":30,"rate":0.5}`)
}

func TestSimilarProfile_MissingLabels(t *testing.T) {
	svc := newTestService(t, instantGateway(`{}`))
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/profile?t=T1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMON_002")
}

func TestSimilarProfile_UnknownStageLabel(t *testing.T) {
	svc := newTestService(t, instantGateway(`{}`))
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/profile?t=T9&n=N0&m=M0")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "STAGE_002")
}

func TestPredictSurvival_ReturnsPrediction(t *testing.T) {
	svc := newTestService(t, instantGateway(`{
		"model": {"classes": ["dead", "alive"], "coef": [[0, 0, 0]], "intercept": [100]},
		"accuracy": 0.87
	}`))
	completeWorkflow(t, svc, "survival")
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/survival?t=T2&n=N1&m=M1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vital_status":"alive"`)
	assert.Contains(t, rec.Body.String(), `"model_accuracy":0.87`)
}

func TestStatistics_DefaultsToTAxis(t *testing.T) {
	svc := newTestService(t, instantGateway(`{
		"nids": 4,
		"stages": {"t": {"T0": 3, "T1": 1}},
		"vital_status": {"alive": 4},
		"survival": [1.0, 0.75]
	}`))
	completeWorkflow(t, svc, "statistics")
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/statistics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"T0"`)
	assert.Contains(t, rec.Body.String(), `"nids":4`)
}

func TestLocalStatistics_NotConfigured(t *testing.T) {
	svc := newTestService(t, instantGateway(`{}`))
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/statistics/local")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATA_003")
}

func TestStageLabels_ListsAllAxes(t *testing.T) {
	svc := newTestService(t, instantGateway(`{}`))
	r := analyticsRouter(svc)

	rec := doRequest(r, http.MethodGet, "/api/v1/analytics/stages")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"t":["T0","T1","T2"]`)
	assert.Contains(t, rec.Body.String(), `"m":["M0","M1"]`)
}

//Personal.AI order the ending
