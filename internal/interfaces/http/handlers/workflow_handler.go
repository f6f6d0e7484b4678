package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onconet/healthai/internal/application/dashboard"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/pkg/errors"
)

// WorkflowHandler exposes the task lifecycle: submit, poll, status, raw
// result, and the audit history.
type WorkflowHandler struct {
	svc *dashboard.Service
}

// NewWorkflowHandler constructs a WorkflowHandler.
func NewWorkflowHandler(svc *dashboard.Service) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

func workflowParam(c *gin.Context) (task.Workflow, bool) {
	w := task.Workflow(c.Param("workflow"))
	if !w.Valid() {
		respondError(c, errors.InvalidParam("unknown workflow").
			WithDetail("workflow="+string(w)))
		return "", false
	}
	return w, true
}

// Submit dispatches the workflow's federated task.
// POST /api/v1/workflows/:workflow/submit
func (h *WorkflowHandler) Submit(c *gin.Context) {
	w, ok := workflowParam(c)
	if !ok {
		return
	}
	handle, err := h.svc.Submit(c.Request.Context(), w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"workflow":   handle.Workflow,
		"task_id":    handle.ID,
		"request_id": handle.RequestID,
		"generation": handle.Generation,
	})
}

// Poll checks the workflow's live task once.
// POST /api/v1/workflows/:workflow/poll
func (h *WorkflowHandler) Poll(c *gin.Context) {
	w, ok := workflowParam(c)
	if !ok {
		return
	}
	done, err := h.svc.Poll(c.Request.Context(), w)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusAccepted
	if done {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"workflow": w, "complete": done})
}

// Status reports the workflow's lifecycle position.
// GET /api/v1/workflows/:workflow/status
func (h *WorkflowHandler) Status(c *gin.Context) {
	w, ok := workflowParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Status(w))
}

// Result returns the raw cached result records for the workflow.
// GET /api/v1/workflows/:workflow/result
func (h *WorkflowHandler) Result(c *gin.Context) {
	w, ok := workflowParam(c)
	if !ok {
		return
	}
	entry, err := h.svc.Result(c.Request.Context(), w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workflow":        entry.Workflow,
		"task_id":         entry.TaskID,
		"request_id":      entry.RequestID,
		"records":         entry.Records,
		"elapsed_seconds": entry.Seconds(),
	})
}

// History lists recent task submissions and outcomes.
// GET /api/v1/workflows/history?limit=N
func (h *WorkflowHandler) History(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	records, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

//Personal.AI order the ending
