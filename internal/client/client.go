// Package client is the HTTP side of the attempt session: it fetches the
// student-safe test and performs the single submission call for the
// session Runner.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/session"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// FetchTest loads the student-safe test view used to initialize a session.
func (c *Client) FetchTest(ctx context.Context, testID string) (exam.Test, error) {
	var t exam.Test
	if err := c.doJSON(ctx, http.MethodGet, "/tests/"+testID, nil, &t); err != nil {
		return exam.Test{}, err
	}
	return t, nil
}

// Submit implements session.Submitter: one request, one response, no
// client-side retries. Duplicate-call prevention is the session's job.
func (c *Client) Submit(ctx context.Context, testID string, answers map[string]string) (string, error) {
	var resp struct {
		AttemptID string `json:"attempt_id"`
	}
	body := map[string]any{"answers": answers}
	if err := c.doJSON(ctx, http.MethodPost, "/tests/"+testID+"/submit", body, &resp); err != nil {
		return "", err
	}
	return resp.AttemptID, nil
}

var _ session.Submitter = (*Client)(nil)

// Questions converts a fetched test into the session's render view.
func Questions(t exam.Test) []session.Question {
	out := make([]session.Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		sq := session.Question{ID: q.ID, Prompt: q.Prompt, Marks: q.Marks}
		for _, o := range q.Options {
			sq.Choices = append(sq.Choices, session.Choice{ID: o.ID, Text: o.Text})
		}
		out = append(out, sq)
	}
	return out
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusUnauthorized:
		return exam.ErrUnauthorized
	case http.StatusNotFound:
		return exam.ErrTestNotFound
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
