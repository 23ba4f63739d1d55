// Package httpapi is a Collaborator backed by the coaching HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
)

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// Config configures a Client.
type Config struct {
	BaseURL string // e.g. http://localhost:8001; "/api" is appended
	Timeout time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the coaching API. It issues one request per call and
// never retries.
type Client struct {
	base *url.URL
	http *http.Client
}

var (
	_ coach.Collaborator = (*Client)(nil)
	_ coach.Fetcher      = (*Client)(nil)
)

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpapi: base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpapi: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("httpapi: unsupported scheme %q", u.Scheme)
	}

	h := cfg.HTTPClient
	if h == nil {
		h = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: u, http: h}, nil
}

// SubmitQuestionnaire posts the submission to /api/questionnaire.
func (c *Client) SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*coach.Profile, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, &coach.Error{Op: coach.OpSubmit, Err: fmt.Errorf("encode submission: %w", err)}
	}
	raw, err := c.do(ctx, coach.OpSubmit, http.MethodPost, "questionnaire", body)
	if err != nil {
		return nil, err
	}
	return coach.DecodeProfile(coach.OpSubmit, raw)
}

// GeneratePlan posts to /api/plan/{profileID}.
func (c *Client) GeneratePlan(ctx context.Context, profileID string) (*coach.PlanResult, error) {
	raw, err := c.do(ctx, coach.OpPlan, http.MethodPost, "plan/"+url.PathEscape(profileID), nil)
	if err != nil {
		return nil, err
	}
	return coach.DecodePlanResult(coach.OpPlan, raw)
}

// FetchProfile reads /api/profile/{profileID}.
func (c *Client) FetchProfile(ctx context.Context, profileID string) (*coach.Profile, error) {
	raw, err := c.do(ctx, coach.OpFetchProfile, http.MethodGet, "profile/"+url.PathEscape(profileID), nil)
	if err != nil {
		return nil, err
	}
	return coach.DecodeProfile(coach.OpFetchProfile, raw)
}

// FetchPlan reads /api/plan/{profileID}.
func (c *Client) FetchPlan(ctx context.Context, profileID string) (*coach.PlanResult, error) {
	raw, err := c.do(ctx, coach.OpFetchPlan, http.MethodGet, "plan/"+url.PathEscape(profileID), nil)
	if err != nil {
		return nil, err
	}
	return coach.DecodePlanResult(coach.OpFetchPlan, raw)
}

// endpoint joins the base URL and an already escaped API path.
func (c *Client) endpoint(p string) string {
	return c.base.String() + "/api/" + p
}

func (c *Client) do(ctx context.Context, op, method, p string, body []byte) (json.RawMessage, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(p), r)
	if err != nil {
		return nil, &coach.Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &coach.Error{Op: op, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, &coach.Error{Op: op, StatusCode: res.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if res.StatusCode/100 != 2 {
		return nil, &coach.Error{Op: op, StatusCode: res.StatusCode, Err: errors.New(detail(res.Status, raw))}
	}
	return raw, nil
}

// detail extracts the "detail" message of an error body, falling back to
// the status line.
func detail(status string, raw []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch d := body.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
	}
	return status
}
