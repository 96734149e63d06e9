// Package apiclient talks to the board HTTP API and maps its error bodies
// back onto the model errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ErrNotFound is returned for a 404 on a path that names no known resource.
var ErrNotFound = errors.New("apiclient: not found")

// Client wraps http.Client with helpers for JSON requests.
type Client struct {
	BaseURL string
	Bearer  string
	HTTP    *http.Client
}

func New(baseURL, bearer string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Bearer:  bearer,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// errorBody mirrors the server's error response.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func (c *Client) Board(ctx context.Context) (*model.Board, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) Create(ctx context.Context, in repository.CreateTaskInput) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Labels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := c.do(ctx, http.MethodGet, "/labels", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *Client) Assignees(ctx context.Context) ([]model.Assignee, error) {
	var assignees []model.Assignee
	if err := c.do(ctx, http.MethodGet, "/assignees", nil, &assignees); err != nil {
		return nil, err
	}
	return assignees, nil
}

// Move posts a move intent. It satisfies boardstate.MoveAPI.
func (c *Client) Move(ctx context.Context, id uuid.UUID, req model.MoveRequest) (*model.MoveResult, error) {
	var result model.MoveResult
	if err := c.do(ctx, http.MethodPost, "/tasks/"+id.String()+"/move", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		reader = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.Bearer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response, path string) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFound(path), msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", model.ErrVersionConflict, msg)
	case http.StatusBadRequest:
		field := body.Details["field"]
		if field == "" {
			field = "request"
		}
		reason := body.Details["reason"]
		if reason == "" {
			reason = msg
		}
		return &model.ValidationError{Field: field, Reason: reason}
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
}

// notFound picks the missing-resource error from the request path.
func notFound(path string) error {
	switch {
	case path == "/tasks" || strings.HasPrefix(path, "/tasks/"):
		return model.ErrTaskNotFound
	case path == "/labels" || strings.HasPrefix(path, "/labels/"):
		return model.ErrLabelNotFound
	case path == "/assignees" || strings.HasPrefix(path, "/assignees/"):
		return model.ErrAssigneeNotFound
	default:
		return ErrNotFound
	}
}
