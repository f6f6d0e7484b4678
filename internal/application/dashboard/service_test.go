package dashboard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/application/analytics"
	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/database/postgres/repositories"
	"github.com/onconet/healthai/pkg/errors"
)

type stubGateway struct {
	createTaskFn  func(ctx context.Context, spec task.Spec) (int, error)
	taskStatusFn  func(ctx context.Context, taskID int) (task.Status, error)
	taskResultsFn func(ctx context.Context, taskID int) ([]task.ResultRecord, error)
}

func (g *stubGateway) Authenticate(_ context.Context) error { return nil }

func (g *stubGateway) CreateTask(ctx context.Context, spec task.Spec) (int, error) {
	return g.createTaskFn(ctx, spec)
}

func (g *stubGateway) TaskStatus(ctx context.Context, taskID int) (task.Status, error) {
	return g.taskStatusFn(ctx, taskID)
}

func (g *stubGateway) TaskResults(ctx context.Context, taskID int) ([]task.ResultRecord, error) {
	return g.taskResultsFn(ctx, taskID)
}

// completingGateway completes every task immediately and serves payload as the
// single master result row.
func completingGateway(payload string) *stubGateway {
	return &stubGateway{
		createTaskFn: func(_ context.Context, _ task.Spec) (int, error) { return 11, nil },
		taskStatusFn: func(_ context.Context, id int) (task.Status, error) {
			return task.Status{ID: id, Complete: true}, nil
		},
		taskResultsFn: func(_ context.Context, _ int) ([]task.ResultRecord, error) {
			return []task.ResultRecord{{Organization: 2, Result: json.RawMessage(payload)}}, nil
		},
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// A short survival axis keeps fixture curves small: days [0, 30].
	cfg.Workflows.Statistics.Cutoff = 60
	cfg.Workflows.Statistics.Delta = 30
	return cfg
}

func testCDM(t *testing.T) *staging.CDM {
	t.Helper()
	cdm, err := staging.NewCDM(map[staging.Axis][]string{
		staging.AxisT: {"T0", "T1", "T2"},
		staging.AxisN: {"N0", "N1"},
		staging.AxisM: {"M0", "M1"},
	})
	require.NoError(t, err)
	return cdm
}

func newTestService(t *testing.T, gw *stubGateway) *Service {
	t.Helper()
	cfg := testConfig()
	cdm := testCDM(t)
	codec, err := staging.NewCodec(cdm, staging.PolicyEnumeration)
	require.NoError(t, err)
	orch := workflow.NewOrchestrator(gw, workflow.NewCache(nil, nil), nil, nil, nil)
	return NewService(cfg, orch, workflow.NewSpecBuilder(cfg), cdm, codec, nil, nil, nil)
}

// submitAndComplete drives a workflow through one full submit/poll cycle.
func submitAndComplete(t *testing.T, svc *Service, w task.Workflow) {
	t.Helper()
	_, err := svc.Submit(context.Background(), w)
	require.NoError(t, err)
	done, err := svc.Poll(context.Background(), w)
	require.NoError(t, err)
	require.True(t, done)
}

func TestSubmit_UnknownWorkflow(t *testing.T) {
	svc := newTestService(t, &stubGateway{})

	_, err := svc.Submit(context.Background(), task.Workflow("genomics"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

func TestStatus_TracksLifecycle(t *testing.T) {
	gw := &stubGateway{
		createTaskFn: func(_ context.Context, _ task.Spec) (int, error) { return 99, nil },
	}
	svc := newTestService(t, gw)

	assert.Equal(t, task.StateIdle, svc.Status(task.WorkflowStatistics).State)

	h, err := svc.Submit(context.Background(), task.WorkflowStatistics)
	require.NoError(t, err)

	view := svc.Status(task.WorkflowStatistics)
	assert.Equal(t, task.StateSubmitted, view.State)
	assert.Equal(t, 99, view.TaskID)
	assert.Equal(t, h.RequestID, view.RequestID)
	require.NotNil(t, view.Submitted)
}

func TestSimilarityProfile_EndToEnd(t *testing.T) {
	gw := completingGateway(`{
		"centroids": [[1, 0, 0], [5, 5, 5]],
		"profiles":  [[0.9, 0.5], [0.6, 0.2]]
	}`)
	svc := newTestService(t, gw)
	submitAndComplete(t, svc, task.WorkflowSimilarity)

	view, err := svc.SimilarityProfile(context.Background(), "T1", "N0", "M0")
	require.NoError(t, err)
	assert.Equal(t, staging.FeatureVector{1, 0, 0}, view.Query)
	assert.Equal(t, []analytics.SurvivalPoint{{Day: 0, Rate: 0.9}, {Day: 30, Rate: 0.5}}, view.Profile)
}

func TestSimilarityProfile_UnknownLabel(t *testing.T) {
	svc := newTestService(t, completingGateway(`{}`))

	_, err := svc.SimilarityProfile(context.Background(), "T9", "N0", "M0")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownStage, errors.GetCode(err))
}

func TestSimilarityProfile_BeforeCompletion(t *testing.T) {
	gw := &stubGateway{
		createTaskFn: func(_ context.Context, _ task.Spec) (int, error) { return 11, nil },
		taskStatusFn: func(_ context.Context, id int) (task.Status, error) {
			return task.Status{ID: id, Complete: false}, nil
		},
	}
	svc := newTestService(t, gw)

	_, err := svc.Submit(context.Background(), task.WorkflowSimilarity)
	require.NoError(t, err)

	_, err = svc.SimilarityProfile(context.Background(), "T1", "N0", "M0")
	require.Error(t, err)
	assert.True(t, errors.IsNotReady(err))
}

func TestPredictSurvival_EndToEnd(t *testing.T) {
	gw := completingGateway(`{
		"model": {"classes": ["dead", "alive"], "coef": [[0, 0, 0]], "intercept": [100]},
		"accuracy": 0.87
	}`)
	svc := newTestService(t, gw)
	submitAndComplete(t, svc, task.WorkflowSurvival)

	view, err := svc.PredictSurvival(context.Background(), "T2", "N1", "M1")
	require.NoError(t, err)
	assert.Equal(t, staging.FeatureVector{2, 1, 1}, view.Query)
	assert.Equal(t, "alive", view.VitalStatus)
	assert.InDelta(t, 1.0, view.Probability, 1e-9)
	assert.InDelta(t, 0.87, view.Accuracy, 1e-9)
}

func TestStatistics_ReshapesAllTables(t *testing.T) {
	gw := &stubGateway{
		createTaskFn: func(_ context.Context, _ task.Spec) (int, error) { return 11, nil },
		taskStatusFn: func(_ context.Context, id int) (task.Status, error) {
			return task.Status{ID: id, Complete: true}, nil
		},
		taskResultsFn: func(_ context.Context, _ int) ([]task.ResultRecord, error) {
			return []task.ResultRecord{
				{Organization: 2, Result: json.RawMessage(`{
					"nids": 4,
					"stages": {"t": {"T0": 3, "T1": 1}},
					"vital_status": {"alive": 3, "dead": 1},
					"survival": [1.0, 0.75]
				}`)},
				{Organization: 3, Result: json.RawMessage(`{
					"nids": 6,
					"stages": {"t": {"T0": 2, "T2": 4}},
					"vital_status": {"alive": 6},
					"survival": [1.0, 0.5]
				}`)},
			}, nil
		},
	}
	svc := newTestService(t, gw)
	submitAndComplete(t, svc, task.WorkflowStatistics)

	view, err := svc.Statistics(context.Background(), "t")
	require.NoError(t, err)

	assert.Equal(t, []analytics.RecordTotal{{Organization: 2, NIDs: 4}, {Organization: 3, NIDs: 6}}, view.Totals)

	// Category union in sorted order, zero-filled per organization.
	assert.Contains(t, view.StageCounts, analytics.CountRow{Organization: 2, Category: "T2", Count: 0})
	assert.Contains(t, view.StageCounts, analytics.CountRow{Organization: 3, Category: "T2", Count: 4})
	assert.Contains(t, view.StageCounts, analytics.CountRow{Organization: 3, Category: "T1", Count: 0})

	assert.Contains(t, view.VitalStatus, analytics.CountRow{Organization: 3, Category: "dead", Count: 0})

	require.Contains(t, view.Survival, 2)
	assert.Equal(t, []analytics.SurvivalPoint{{Day: 0, Rate: 1.0}, {Day: 30, Rate: 0.75}}, view.Survival[2])
	require.Contains(t, view.Survival, 3)
	assert.Equal(t, []analytics.SurvivalPoint{{Day: 0, Rate: 1.0}, {Day: 30, Rate: 0.5}}, view.Survival[3])
}

func TestStatistics_UnknownAxis(t *testing.T) {
	svc := newTestService(t, completingGateway(`{"nids": 1, "stages": {"t": {"T0": 1}}}`))
	submitAndComplete(t, svc, task.WorkflowStatistics)

	_, err := svc.Statistics(context.Background(), "grade")
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

func TestLocalStatistics_NoDatasetConfigured(t *testing.T) {
	svc := newTestService(t, &stubGateway{})

	_, err := svc.LocalStatistics(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDatasetParse, errors.GetCode(err))
}

func TestStageLabels_AllAxes(t *testing.T) {
	svc := newTestService(t, &stubGateway{})

	labels, err := svc.StageLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"T0", "T1", "T2"}, labels[staging.AxisT])
	assert.Equal(t, []string{"N0", "N1"}, labels[staging.AxisN])
	assert.Equal(t, []string{"M0", "M1"}, labels[staging.AxisM])
}

func TestHistory_DisabledStore(t *testing.T) {
	svc := newTestService(t, &stubGateway{})

	_, err := svc.History(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeServiceUnavailable, errors.GetCode(err))
}

type stubHistory struct {
	records []repositories.HistoryRecord
}

func (s *stubHistory) ListRecent(_ context.Context, limit int) ([]repositories.HistoryRecord, error) {
	if limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func TestHistory_DelegatesToStore(t *testing.T) {
	cfg := testConfig()
	cdm := testCDM(t)
	codec, err := staging.NewCodec(cdm, staging.PolicyEnumeration)
	require.NoError(t, err)
	orch := workflow.NewOrchestrator(&stubGateway{}, workflow.NewCache(nil, nil), nil, nil, nil)
	history := &stubHistory{records: []repositories.HistoryRecord{
		{RequestID: "r1", Workflow: "statistics", State: "completed", SubmittedAt: time.Now()},
		{RequestID: "r2", Workflow: "survival", State: "failed", SubmittedAt: time.Now()},
	}}
	svc := NewService(cfg, orch, workflow.NewSpecBuilder(cfg), cdm, codec, history, nil, nil)

	got, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].RequestID)
}

//Personal.AI order the ending
