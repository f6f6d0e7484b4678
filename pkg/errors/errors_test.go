package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesCodeAndStack(t *testing.T) {
	err := New(ErrCodeNoLiveTask, "poll requested before submission")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeNoLiveTask, err.Code)
	assert.Equal(t, "poll requested before submission", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Error(), "[TASK_005]")
}

func TestError_WithDetail(t *testing.T) {
	base := New(ErrCodeUnknownStage, "stage label not in the configured enumeration")
	detailed := base.WithDetail("axis=t label=T9x")

	assert.Contains(t, detailed.Error(), "axis=t label=T9x")
	// The original is not mutated.
	assert.Empty(t, base.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("ignored"))
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeTaskSubmission, "failed to create task")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeTaskSubmission, err.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "never happens"))
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	inner := New(ErrCodeResultNotReady, "still waiting")
	outer := Wrap(inner, CodeUnknown, "adding context only")

	assert.Equal(t, ErrCodeResultNotReady, outer.Code)
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodeStaleResult, "result belongs to a superseded task")
	outer := fmt.Errorf("store failed: %w", inner)

	assert.True(t, IsCode(outer, ErrCodeStaleResult))
	assert.False(t, IsCode(outer, ErrCodeAuthFailed))
	assert.False(t, IsCode(nil, ErrCodeStaleResult))
}

func TestIsNotReady(t *testing.T) {
	assert.True(t, IsNotReady(StillWaiting("")))
	assert.False(t, IsNotReady(New(ErrCodeTaskNotFound, "gone")))
}

func TestIsShapeViolation(t *testing.T) {
	err := ShapeViolation("centroid/profile length mismatch").WithDetail("centroids=2 profiles=3")
	assert.True(t, IsShapeViolation(err))
	assert.False(t, IsShapeViolation(New(ErrCodeInternal, "boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrCodeAuthFailed, GetCode(New(ErrCodeAuthFailed, "bad credentials")))
}

func TestStillWaiting_DefaultMessage(t *testing.T) {
	err := StillWaiting("")
	assert.Equal(t, DefaultMessageForCode(ErrCodeResultNotReady), err.Message)
}

//Personal.AI order the ending
