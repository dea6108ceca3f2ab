package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrowtown/cali-votes/internal/config"
	"github.com/mrowtown/cali-votes/internal/domain"
)

// Client talks to the remote action-dispatch endpoint. The endpoint is an
// opaque black box: one URL, POSTed action envelopes in, JSON (or raw text)
// out, plus a GET mode for the leaderboard.
type Client struct {
	execURL string
	origin  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		execURL: cfg.ExecURL,
		origin:  cfg.PublicOrigin,
		http:    &http.Client{Timeout: cfg.RemoteTimeout},
	}
}

// NewClientWith builds a client against an explicit URL and origin, with the
// given timeout. Used by tests against httptest servers.
func NewClientWith(execURL, origin string, timeout time.Duration) *Client {
	return &Client{execURL: execURL, origin: origin, http: &http.Client{Timeout: timeout}}
}

// Dispatch POSTs {action, origin, ...payload} to the exec endpoint and
// decodes the success body into out (which may be nil, or a
// *json.RawMessage when the caller wants to parse the shape itself).
//
// The body is sent with a text/plain content type. The remote platform
// treats a stricter content type as a preflighted request and rejects it,
// so the JSON rides in a "simple" request, matching what the endpoint's
// deployment expects.
//
// The origin field is merged last and is always the configured public
// origin; a caller-supplied "origin" in payload is overwritten. Responses
// that are not valid JSON come back as *domain.RemoteError carrying the raw
// text, so callers always see one of: decoded success payload, remote
// error, or a transport error.
func (c *Client) Dispatch(ctx context.Context, action string, payload map[string]any, out any) error {
	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action
	body["origin"] = c.origin

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.execURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", action, err)
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, out)
}

// Leaderboard fetches the ranked city totals via the endpoint's GET mode.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	sep := "?"
	if strings.Contains(c.execURL, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.execURL+sep+"page=leaderboard", nil)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Leaderboard []domain.LeaderboardRow `json:"leaderboard"`
	}
	if err := decodeBody(resp.Body, &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

// decodeBody reads the full response text and applies the uniform response
// contract: non-JSON bodies and {"error": ...} bodies become
// *domain.RemoteError; anything else is unmarshalled into out.
func decodeBody(r io.Reader, out any) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(text, &probe); err != nil {
		return &domain.RemoteError{Message: string(text)}
	}
	if probe.Error != "" {
		return &domain.RemoteError{Message: probe.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(text, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
