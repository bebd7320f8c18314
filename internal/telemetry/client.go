// Package telemetry reports study-session lifecycle to the analytics
// endpoint on a best-effort basis. Failures are logged and swallowed:
// the quiz surface must stay usable with telemetry down or unset.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Handle identifies a started session. A zero Handle is returned when
// the start call failed (or telemetry is disabled); ReportEnd treats
// it as a no-op.
type Handle struct {
	ID        string
	StartedAt time.Time
}

func (h Handle) Zero() bool { return h.ID == "" }

// Summary is the interaction recap sent with the end call.
type Summary struct {
	QuestionsAnswered int
	CorrectCount      int
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithToken(tok string) Option          { return func(c *Client) { c.token = tok } }
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a client for the given endpoint base URL. An empty base
// URL disables reporting entirely.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ReportStart opens a study session for the given context (typically a
// chapter ID). On any failure it logs and returns a zero Handle; the
// caller proceeds regardless.
func (c *Client) ReportStart(ctx context.Context, contextID string) Handle {
	if c.baseURL == "" {
		return Handle{}
	}
	var res struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, "/study-sessions", map[string]any{"context_id": contextID}, &res)
	if err != nil {
		log.Printf("telemetry: session start failed: %v", err)
		return Handle{}
	}
	if res.ID == "" {
		log.Printf("telemetry: session start returned no id")
		return Handle{}
	}
	return Handle{ID: res.ID, StartedAt: c.now()}
}

// ReportEnd closes a started session. Duration is whole minutes,
// minimum 1. No-op on a zero handle; failures are logged, never
// returned.
func (c *Client) ReportEnd(ctx context.Context, h Handle, s Summary) {
	if h.Zero() || c.baseURL == "" {
		return
	}
	now := c.now()
	mins := int(now.Sub(h.StartedAt) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	body := map[string]any{
		"ended_at":           now.UTC().Format(time.RFC3339),
		"duration_minutes":   mins,
		"questions_answered": s.QuestionsAnswered,
		"correct_count":      s.CorrectCount,
	}
	if err := c.post(ctx, "/study-sessions/"+h.ID+"/end", body, nil); err != nil {
		log.Printf("telemetry: session end failed: %v", err)
	}
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("%s: %s", path, res.Status)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
