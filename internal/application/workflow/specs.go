package workflow

import (
	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/task"
)

// SpecBuilder turns configured workflow parameters into submission specs.
// All tasks run as master tasks against the configured collaboration.
type SpecBuilder struct {
	collaboration config.CollaborationConfig
	workflows     config.WorkflowsConfig
}

// NewSpecBuilder builds a SpecBuilder from configuration.
func NewSpecBuilder(cfg *config.Config) *SpecBuilder {
	return &SpecBuilder{
		collaboration: cfg.Collaboration,
		workflows:     cfg.Workflows,
	}
}

// Statistics builds the federated descriptive-statistics spec.  Cutoff and
// delta control the survival-rate binning on the nodes.
func (b *SpecBuilder) Statistics() task.Spec {
	wf := b.workflows.Statistics
	return task.Spec{
		Workflow: task.WorkflowStatistics,
		Name:     "statistics",
		Image:    wf.Image,
		Method:   wf.Method,
		Kwargs: map[string]interface{}{
			"cutoff": wf.Cutoff,
			"delta":  wf.Delta,
		},
		CollaborationID: b.collaboration.ID,
		OrganizationIDs: append([]int(nil), b.collaboration.OrganizationIDs...),
	}
}

// Survival builds the federated logistic-regression spec.
func (b *SpecBuilder) Survival() task.Spec {
	wf := b.workflows.Survival
	return task.Spec{
		Workflow: task.WorkflowSurvival,
		Name:     "survival",
		Image:    wf.Image,
		Method:   wf.Method,
		Kwargs: map[string]interface{}{
			"max_iter": wf.MaxIter,
		},
		CollaborationID: b.collaboration.ID,
		OrganizationIDs: append([]int(nil), b.collaboration.OrganizationIDs...),
	}
}

// Similarity builds the federated k-means spec over the staged feature
// columns.
func (b *SpecBuilder) Similarity() task.Spec {
	wf := b.workflows.Similarity
	return task.Spec{
		Workflow: task.WorkflowSimilarity,
		Name:     "similarity",
		Image:    wf.Image,
		Method:   wf.Method,
		Kwargs: map[string]interface{}{
			"k":        wf.K,
			"epsilon":  wf.Epsilon,
			"max_iter": wf.MaxIter,
			"columns":  append([]string(nil), wf.Columns...),
		},
		CollaborationID: b.collaboration.ID,
		OrganizationIDs: append([]int(nil), b.collaboration.OrganizationIDs...),
	}
}

// Spec builds the submission spec for the named workflow.
func (b *SpecBuilder) Spec(w task.Workflow) (task.Spec, bool) {
	switch w {
	case task.WorkflowStatistics:
		return b.Statistics(), true
	case task.WorkflowSurvival:
		return b.Survival(), true
	case task.WorkflowSimilarity:
		return b.Similarity(), true
	}
	return task.Spec{}, false
}

//Personal.AI order the ending
