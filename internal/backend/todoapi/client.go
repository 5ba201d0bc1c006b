// Package todoapi implements the service interfaces against the task REST API.
package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/session"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second
)

// Client implements service.Service over HTTP with a bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client from the stored session.
// Returns session.ErrNoSession if nobody is logged in. An expired session
// is removed and session.ErrExpired returned.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	sess, err := session.Load(cfg.SessionPath())
	if errors.Is(err, session.ErrExpired) {
		if _, cerr := session.Clear(cfg.SessionPath()); cerr != nil {
			cfg.Log().Warn("failed to clear session", "err", cerr)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return NewWithToken(ctx, cfg.APIURL(), sess.Token, cfg.Log()), nil
}

// NewWithToken creates a client for baseURL that authenticates with token.
func NewWithToken(ctx context.Context, baseURL string, token *oauth2.Token, log *slog.Logger) *Client {
	base := &http.Client{Transport: newTransport(http.DefaultTransport, log)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return &Client{
		baseURL: baseURL,
		http:    oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)),
		log:     log,
	}
}

// ListTasks returns all tasks ordered by the server (by position).
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resp []taskDTO
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(resp))
	for _, t := range resp {
		tasks = append(tasks, t.toTask())
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id int) (service.Task, error) {
	var resp taskDTO
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	var resp taskDTO
	if err := c.do(ctx, http.MethodPost, "/tasks/", newTaskCreateDTO(t), &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) (service.Task, error) {
	var resp taskDTO
	if err := c.do(ctx, http.MethodPut, taskPath(id), newTaskUpdateDTO(upd), &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// DeleteCompleted deletes all completed tasks.
func (c *Client) DeleteCompleted(ctx context.Context) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/tasks/completed/all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// UpdatePositions sends all positions in one request.
func (c *Client) UpdatePositions(ctx context.Context, positions map[int]int) error {
	body := make(map[string]int, len(positions))
	for id, pos := range positions {
		body[strconv.Itoa(id)] = pos
	}
	return c.do(ctx, http.MethodPut, "/tasks/positions/update", body, nil)
}

// AddSubtask adds a subtask.
func (c *Client) AddSubtask(ctx context.Context, taskID int, title string) (service.Subtask, error) {
	var resp subtaskDTO
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, taskPath(taskID)+"/subtasks", body, &resp); err != nil {
		return service.Subtask{}, err
	}
	return resp.toSubtask(), nil
}

// SetSubtaskCompleted sets the completed flag of a subtask.
func (c *Client) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID int, completed bool) (service.Subtask, error) {
	var resp subtaskDTO
	body := map[string]bool{"completed": completed}
	if err := c.do(ctx, http.MethodPut, subtaskPath(taskID, subtaskID), body, &resp); err != nil {
		return service.Subtask{}, err
	}
	return resp.toSubtask(), nil
}

// DeleteSubtask deletes a subtask.
func (c *Client) DeleteSubtask(ctx context.Context, taskID, subtaskID int) error {
	return c.do(ctx, http.MethodDelete, subtaskPath(taskID, subtaskID), nil, nil)
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return doJSON(ctx, c.http, method, c.baseURL+path, body, out)
}

func doJSON(ctx context.Context, hc *http.Client, method, url string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}

func taskPath(id int) string {
	return "/tasks/" + strconv.Itoa(id)
}

func subtaskPath(taskID, subtaskID int) string {
	return taskPath(taskID) + "/subtasks/" + strconv.Itoa(subtaskID)
}
