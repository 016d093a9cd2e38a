// Package remote implements board.Service against a weekboard HTTP server.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"weekboard/internal/api"
	"weekboard/internal/board"
	"weekboard/internal/model"
)

var _ board.Service = (*Client)(nil)

// Client wraps http.Client with the weekboard routes.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) FetchTasksForYear(ctx context.Context, year int) (model.YearTasks, error) {
	var res model.YearTasks
	err := c.do(ctx, http.MethodGet, "/api/years/"+strconv.Itoa(year)+"/tasks", nil, &res)
	return res, err
}

func (c *Client) FetchProjects(ctx context.Context) ([]model.Project, error) {
	var ps []model.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &ps)
	return ps, err
}

func (c *Client) SetTaskDateToWeekStart(ctx context.Context, id string, year, week int) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id, "week"), api.WeekRequest{Year: year, Week: week}, &t)
	return t, err
}

func (c *Client) ShiftTaskByWeeks(ctx context.Context, id string, weeks int) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id, "shift"), api.ShiftRequest{Weeks: weeks}, &t)
	return t, err
}

func (c *Client) UpdateTaskField(ctx context.Context, id string, field model.Field, value string) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPatch, taskPath(id, "fields", string(field)), api.FieldRequest{Value: value}, &t)
	return t, err
}

// Healthy reports whether the server answers its health check.
func (c *Client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func taskPath(id string, parts ...string) string {
	p := "/api/tasks/" + url.PathEscape(id)
	for _, x := range parts {
		p += "/" + url.PathEscape(x)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError rebuilds the typed error the server reported so callers can use
// errors.Is / errors.As the same way they would against a local store.
func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er api.ErrorResponse
	if err := sonic.Unmarshal(b, &er); err != nil || er.Error == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	switch er.Code {
	case api.CodeNotFound:
		return model.NotFoundError{Kind: er.Kind, ID: er.ID}
	case api.CodeNoDate:
		return model.ErrNoDate
	case api.CodeInvalidValue:
		return fmt.Errorf("%w: %s", model.ErrInvalidValue, er.Error)
	default:
		return fmt.Errorf("server returned %s: %s", resp.Status, er.Error)
	}
}
