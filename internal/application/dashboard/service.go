// Package dashboard is the application facade the interface layers (HTTP,
// CLI) talk to.  It ties the orchestrator, the stage codec, and the analytics
// functions together into the operations a dashboard page performs.
package dashboard

import (
	"context"
	"time"

	"github.com/onconet/healthai/internal/application/analytics"
	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/database/postgres/repositories"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/prometheus"
	"github.com/onconet/healthai/pkg/errors"
)

// HistoryLister reads the persisted task audit trail.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]repositories.HistoryRecord, error)
}

// Service exposes every dashboard operation.  All fields are set at wiring
// time; history and metrics may be nil when the corresponding backends are
// disabled.
type Service struct {
	cfg     *config.Config
	orch    *workflow.Orchestrator
	specs   *workflow.SpecBuilder
	codec   *staging.Codec
	cdm     *staging.CDM
	history HistoryLister
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewService wires the facade.
func NewService(cfg *config.Config, orch *workflow.Orchestrator, specs *workflow.SpecBuilder,
	cdm *staging.CDM, codec *staging.Codec, history HistoryLister, metrics *prometheus.Metrics,
	logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		cfg:     cfg,
		orch:    orch,
		specs:   specs,
		codec:   codec,
		cdm:     cdm,
		history: history,
		metrics: metrics,
		logger:  logger.Named("dashboard"),
	}
}

// Submit dispatches the named workflow's task to the platform.
func (s *Service) Submit(ctx context.Context, w task.Workflow) (task.Handle, error) {
	spec, ok := s.specs.Spec(w)
	if !ok {
		return task.Handle{}, errors.InvalidParam("unknown workflow").
			WithDetail("workflow=" + string(w))
	}
	h, err := s.orch.Submit(ctx, spec)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveTaskFailed(string(w))
		}
		return task.Handle{}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveTaskSubmitted(string(w))
	}
	return h, nil
}

// Poll checks the named workflow's live task once.
func (s *Service) Poll(ctx context.Context, w task.Workflow) (bool, error) {
	done, err := s.orch.Poll(ctx, w)
	if s.metrics != nil {
		switch {
		case err != nil:
			s.metrics.TaskPollsTotal.WithLabelValues(string(w), "error").Inc()
			if !errors.IsNotReady(err) && !errors.IsCode(err, errors.ErrCodeNoLiveTask) {
				s.metrics.ObserveTaskFailed(string(w))
			}
		case done:
			s.metrics.TaskPollsTotal.WithLabelValues(string(w), "complete").Inc()
			if entry, cerr := s.orch.Result(ctx, w); cerr == nil {
				s.metrics.ObserveTaskCompleted(string(w), entry.Elapsed)
			}
		default:
			s.metrics.TaskPollsTotal.WithLabelValues(string(w), "pending").Inc()
		}
	}
	return done, err
}

// StatusView summarizes a workflow's lifecycle position for the UI.
type StatusView struct {
	Workflow  task.Workflow `json:"workflow"`
	State     task.State    `json:"state"`
	TaskID    int           `json:"task_id,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Submitted *time.Time    `json:"submitted_at,omitempty"`
}

// Status reports the lifecycle state of w.
func (s *Service) Status(w task.Workflow) StatusView {
	view := StatusView{Workflow: w, State: s.orch.State(w)}
	if h, ok := s.orch.Handle(w); ok {
		view.TaskID = h.ID
		view.RequestID = h.RequestID
		submitted := h.SubmittedAt
		view.Submitted = &submitted
	}
	return view
}

// Result returns the cached raw result entry for w.
func (s *Service) Result(ctx context.Context, w task.Workflow) (workflow.Entry, error) {
	return s.orch.Result(ctx, w)
}

// ProfileView is the answer to a per-patient similarity lookup: the matched
// survival curve paired with the day axis, plus the round-trip timing.
type ProfileView struct {
	Query   staging.FeatureVector     `json:"query"`
	Profile []analytics.SurvivalPoint `json:"profile"`
	Seconds float64                   `json:"elapsed_seconds"`
}

// SimilarityProfile encodes the patient's stage labels, resolves the nearest
// centroid in the cached similarity result, and returns the paired survival
// curve.
func (s *Service) SimilarityProfile(ctx context.Context, tLabel, nLabel, mLabel string) (*ProfileView, error) {
	query, err := s.codec.EncodeVector(tLabel, nLabel, mLabel)
	if err != nil {
		return nil, err
	}
	entry, err := s.orch.Result(ctx, task.WorkflowSimilarity)
	if err != nil {
		return nil, err
	}
	sim, err := task.DecodeSimilarity(masterResult(entry))
	if err != nil {
		return nil, err
	}
	profile, err := analytics.Resolve(query, sim.Centroids, sim.Profiles)
	if err != nil {
		return nil, err
	}
	days, err := analytics.SurvivalDays(s.cfg.Workflows.Statistics.Cutoff, s.cfg.Workflows.Statistics.Delta)
	if err != nil {
		return nil, err
	}
	points, err := analytics.PairSurvival(days, profile)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Query: query, Profile: points, Seconds: entry.Seconds()}, nil
}

// PredictionView is the answer to a per-patient survival prediction: the
// predicted vital-status label and the model's probability for that label.
type PredictionView struct {
	Query       staging.FeatureVector `json:"query"`
	VitalStatus string                `json:"vital_status"`
	Probability float64               `json:"probability"`
	Accuracy    float64               `json:"model_accuracy"`
	Minutes     float64               `json:"elapsed_minutes"`
}

// PredictSurvival evaluates the cached survival model on the patient's stage
// labels.
func (s *Service) PredictSurvival(ctx context.Context, tLabel, nLabel, mLabel string) (*PredictionView, error) {
	query, err := s.codec.EncodeVector(tLabel, nLabel, mLabel)
	if err != nil {
		return nil, err
	}
	entry, err := s.orch.Result(ctx, task.WorkflowSurvival)
	if err != nil {
		return nil, err
	}
	surv, err := task.DecodeSurvival(masterResult(entry))
	if err != nil {
		return nil, err
	}
	cls, p, err := analytics.Predict(surv.Model, query)
	if err != nil {
		return nil, err
	}
	return &PredictionView{
		Query:       query,
		VitalStatus: cls,
		Probability: p,
		Accuracy:    surv.Accuracy,
		Minutes:     entry.Minutes(),
	}, nil
}

// StatisticsView bundles the reshaped federated statistics tables.
type StatisticsView struct {
	Totals      []analytics.RecordTotal `json:"totals"`
	StageCounts []analytics.CountRow    `json:"stage_counts"`
	VitalStatus []analytics.CountRow    `json:"vital_status"`
	// Survival holds one paired curve per organization ID.
	Survival map[int][]analytics.SurvivalPoint `json:"survival"`
	Seconds  float64                           `json:"elapsed_seconds"`
}

// Statistics decodes the cached statistics result and reshapes it into
// per-organization comparable tables for the given stage axis.
func (s *Service) Statistics(ctx context.Context, axis string) (*StatisticsView, error) {
	entry, err := s.orch.Result(ctx, task.WorkflowStatistics)
	if err != nil {
		return nil, err
	}
	records, err := task.DecodeStatisticsSet(entry.Records)
	if err != nil {
		return nil, err
	}
	stageCounts, err := analytics.StageCounts(records, axis)
	if err != nil {
		return nil, err
	}
	days, err := analytics.SurvivalDays(s.cfg.Workflows.Statistics.Cutoff, s.cfg.Workflows.Statistics.Delta)
	if err != nil {
		return nil, err
	}
	curves, err := analytics.SurvivalCurves(records, days)
	if err != nil {
		return nil, err
	}
	return &StatisticsView{
		Totals:      analytics.RecordTotals(records),
		StageCounts: stageCounts,
		VitalStatus: analytics.VitalStatusCounts(records),
		Survival:    curves,
		Seconds:     entry.Seconds(),
	}, nil
}

// LocalStatistics computes the non-federated statistics variant from the
// configured local dataset.
func (s *Service) LocalStatistics(_ context.Context) ([]analytics.CentreSummary, error) {
	if s.cfg.Dataset.Path == "" {
		return nil, errors.New(errors.ErrCodeDatasetParse, "no local dataset configured")
	}
	rows, err := analytics.LoadDataset(s.cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	return analytics.Summarize(rows, s.cfg.Workflows.Statistics.Cutoff, s.cfg.Workflows.Statistics.Delta)
}

// StageLabels returns the configured enumeration for every axis, in
// dropdown order.
func (s *Service) StageLabels() (map[staging.Axis][]string, error) {
	out := make(map[staging.Axis][]string, len(staging.Axes))
	for _, axis := range staging.Axes {
		labels, err := s.cdm.Labels(axis)
		if err != nil {
			return nil, err
		}
		out[axis] = labels
	}
	return out, nil
}

// History lists the newest persisted task audit rows.
func (s *Service) History(ctx context.Context, limit int) ([]repositories.HistoryRecord, error) {
	if s.history == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "task history store is disabled")
	}
	return s.history.ListRecent(ctx, limit)
}

// masterResult picks the payload of a master task from a result listing.
// Master tasks return a single aggregated row; the first row carries it.
func masterResult(entry workflow.Entry) []byte {
	if len(entry.Records) == 0 {
		return nil
	}
	return entry.Records[0].Result
}

//Personal.AI order the ending
