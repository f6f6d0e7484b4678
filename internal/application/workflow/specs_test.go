package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/task"
)

func TestSpecBuilder_UsesConfiguredParameters(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Collaboration.ID = 1
	cfg.Collaboration.OrganizationIDs = []int{2, 3}
	b := NewSpecBuilder(cfg)

	stats := b.Statistics()
	assert.Equal(t, task.WorkflowStatistics, stats.Workflow)
	assert.Equal(t, 1, stats.CollaborationID)
	assert.Equal(t, []int{2, 3}, stats.OrganizationIDs)
	assert.Equal(t, config.DefaultCutoff, stats.Kwargs["cutoff"])
	assert.Equal(t, config.DefaultDelta, stats.Kwargs["delta"])

	surv := b.Survival()
	assert.Equal(t, config.DefaultMaxIter, surv.Kwargs["max_iter"])

	sim := b.Similarity()
	assert.Equal(t, config.DefaultK, sim.Kwargs["k"])
	assert.Equal(t, config.DefaultEpsilon, sim.Kwargs["epsilon"])
	assert.Equal(t, []string{"t", "n", "m"}, sim.Kwargs["columns"])
}

func TestSpecBuilder_SpecByWorkflow(t *testing.T) {
	b := NewSpecBuilder(config.NewDefaultConfig())

	for _, w := range task.Workflows {
		spec, ok := b.Spec(w)
		require.True(t, ok)
		assert.Equal(t, w, spec.Workflow)
	}

	_, ok := b.Spec(task.Workflow("genomics"))
	assert.False(t, ok)
}

//Personal.AI order the ending
