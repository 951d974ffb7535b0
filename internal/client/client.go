package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// Client is the HTTP client for the API, used by the CLI and by app-side
// stores. Timeouts are left to the supplied http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL. A nil httpClient falls back
// to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// RunCoach posts a non-chat coach request and returns the decoded response
func (c *Client) RunCoach(ctx context.Context, req *agent.Request) (*agent.Response, error) {
	var resp agent.Response
	if err := c.post(ctx, "/api/v1/coach", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunChat posts a chat-mode coach request and returns the reply text
func (c *Client) RunChat(ctx context.Context, history []agent.ChatMessage) (string, error) {
	req := &agent.Request{Mode: agent.ModeChat, ChatHistory: history}
	var resp agent.ChatResponse
	if err := c.post(ctx, "/api/v1/coach", req, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// ListGoals fetches all goals
func (c *Client) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.get(ctx, "/api/v1/goals", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ListTasks fetches all tasks
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.get(ctx, "/api/v1/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListHabits fetches all habits
func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.get(ctx, "/api/v1/habits", &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// ListMilestones fetches all milestones
func (c *Client) ListMilestones(ctx context.Context) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := c.get(ctx, "/api/v1/milestones", &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// ListNotes fetches all notes
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.get(ctx, "/api/v1/notes", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListDigests fetches stored retro digests
func (c *Client) ListDigests(ctx context.Context) ([]models.Digest, error) {
	var digests []models.Digest
	if err := c.get(ctx, "/api/v1/digests", &digests); err != nil {
		return nil, err
	}
	return digests, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error (%d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
