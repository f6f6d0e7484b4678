// Package vantage implements the HTTP client for the remote computation
// platform.  The platform is an external collaborator: this package submits
// master tasks, polls their status, and retrieves per-organization results,
// but never observes node internals.
package vantage

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// Gateway is the orchestrator-facing surface of the computation platform.
type Gateway interface {
	// Authenticate obtains an access token.  It is called lazily by the
	// other operations but may be invoked eagerly at startup.
	Authenticate(ctx context.Context) error

	// CreateTask submits a master task and returns its platform ID.
	CreateTask(ctx context.Context, spec task.Spec) (int, error)

	// TaskStatus reports whether the task has completed.
	TaskStatus(ctx context.Context, taskID int) (task.Status, error)

	// TaskResults lists the per-organization result rows of a task.
	TaskResults(ctx context.Context, taskID int) ([]task.ResultRecord, error)
}

// Client talks to the platform's REST API with bearer-token auth and
// exponential-backoff retries.  Safe for concurrent use.
type Client struct {
	baseURL      string
	apiPath      string
	username     string
	password     string
	httpClient   *http.Client
	logger       logging.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	mu    sync.Mutex
	token string
}

// NewClient builds a platform client for the server at baseURL.  apiPath is
// the API mount point, usually "/api".
func NewClient(baseURL, apiPath, username, password string, opts ...Option) (*Client, error) {
	if baseURL == "" || username == "" || password == "" {
		return nil, errors.InvalidParam("vantage: server url and credentials are required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.InvalidParam("vantage: invalid server url").WithCause(err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.InvalidParam("vantage: server url scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiPath:      "/" + strings.Trim(apiPath, "/"),
		username:     username,
		password:     password,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logging.NewNopLogger(),
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// tokenResponse is the platform's authentication reply.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate exchanges the configured credentials for an access token and
// caches it for subsequent requests.
func (c *Client) Authenticate(ctx context.Context) error {
	body := map[string]string{
		"username": c.username,
		"password": c.password,
	}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token/user", body, &tr, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeAuthFailed, "authentication with the computation platform failed")
	}
	if tr.AccessToken == "" {
		return errors.New(errors.ErrCodeAuthFailed, "platform returned an empty access token")
	}

	c.mu.Lock()
	c.token = tr.AccessToken
	c.mu.Unlock()

	c.logger.Info("authenticated with computation platform",
		logging.String("server", c.baseURL))
	return nil
}

// createTaskRequest is the wire form of a master task submission.
type createTaskRequest struct {
	Name            string        `json:"name"`
	Image           string        `json:"image"`
	CollaborationID int           `json:"collaboration_id"`
	Organizations   []orgInput    `json:"organizations"`
	Input           taskInput     `json:"input"`
	Description     string        `json:"description,omitempty"`
	Databases       []interface{} `json:"databases,omitempty"`
}

type orgInput struct {
	ID int `json:"id"`
}

type taskInput struct {
	Master bool                   `json:"master"`
	Method string                 `json:"method"`
	Kwargs map[string]interface{} `json:"kwargs,omitempty"`
}

type createTaskResponse struct {
	ID int `json:"id"`
}

// CreateTask submits spec as a master task scoped to the spec's collaboration
// and organizations, returning the platform task ID.
func (c *Client) CreateTask(ctx context.Context, spec task.Spec) (int, error) {
	if spec.Image == "" || spec.Method == "" {
		return 0, errors.InvalidParam("vantage: task spec requires image and method")
	}
	orgs := make([]orgInput, len(spec.OrganizationIDs))
	for i, id := range spec.OrganizationIDs {
		orgs[i] = orgInput{ID: id}
	}
	req := createTaskRequest{
		Name:            spec.Name,
		Image:           spec.Image,
		CollaborationID: spec.CollaborationID,
		Organizations:   orgs,
		Input: taskInput{
			Master: true,
			Method: spec.Method,
			Kwargs: spec.Kwargs,
		},
	}

	var resp createTaskResponse
	if err := c.do(ctx, http.MethodPost, "/task", req, &resp, true); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeTaskSubmission, "task submission failed").
			WithDetail(fmt.Sprintf("workflow=%s method=%s", spec.Workflow, spec.Method))
	}

	c.logger.Info("task submitted",
		logging.String("workflow", string(spec.Workflow)),
		logging.String("method", spec.Method),
		logging.Int("task_id", resp.ID))
	return resp.ID, nil
}

// TaskStatus fetches the platform's view of a task.
func (c *Client) TaskStatus(ctx context.Context, taskID int) (task.Status, error) {
	var st task.Status
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/task/%d", taskID), nil, &st, true)
	if err != nil {
		var apiErr *APIError
		if stderrors.As(err, &apiErr) && apiErr.IsNotFound() {
			return task.Status{}, errors.New(errors.ErrCodeTaskNotFound, "task not found").
				WithDetail(fmt.Sprintf("task_id=%d", taskID))
		}
		return task.Status{}, errors.Wrap(err, errors.ErrCodeExternalService, "failed to fetch task status")
	}
	st.ID = taskID
	return st, nil
}

// TaskResults lists the per-organization result rows of a completed task.
// Rows are returned in the order the platform reports them.
func (c *Client) TaskResults(ctx context.Context, taskID int) ([]task.ResultRecord, error) {
	var records []task.ResultRecord
	path := fmt.Sprintf("/result?task_id=%d", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &records, true); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to fetch task results").
			WithDetail(fmt.Sprintf("task_id=%d", taskID))
	}
	return records, nil
}

// do performs one API call with retry, re-authenticating once on a 401.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}, authed bool) error {
	fullURL := c.baseURL + c.apiPath + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
	}

	reauthed := false
	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("retrying platform request",
				logging.Int("attempt", attempt),
				logging.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if authed {
			c.mu.Lock()
			token := c.token
			c.mu.Unlock()
			if token == "" {
				if err := c.Authenticate(ctx); err != nil {
					return err
				}
				c.mu.Lock()
				token = c.token
				c.mu.Unlock()
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("platform request failed", logging.Err(err))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		c.logger.Debug("platform request",
			logging.String("method", method),
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.Duration("elapsed", time.Since(start)))

		if resp.StatusCode == http.StatusUnauthorized && authed && !reauthed {
			// Token expired mid-session: refresh once, without consuming
			// a retry attempt's backoff budget.
			reauthed = true
			if err := c.Authenticate(ctx); err != nil {
				return err
			}
			attempt--
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal platform response")
			}
		}
		return nil
	}
	return lastErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
	return backoff + jitter
}

// APIError is a non-2xx reply from the platform.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vantage: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

//Personal.AI order the ending
