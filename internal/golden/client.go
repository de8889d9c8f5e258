package golden

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
)

// ErrNotFound is returned when the API has no record for an identifier.
var ErrNotFound = errors.New("golden: not found")

// Call is a golden-call record.
type Call struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Response  string    `json:"response"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

type Metadata struct {
	ProcessingTime string  `json:"processingTime"`
	Confidence     float64 `json:"confidence"`
}

// ClientConfig points a Client at an API deployment.
type ClientConfig struct {
	BaseURL     string
	Token       string
	Environment string
	Timeout     time.Duration
}

// Client calls the golden-call API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a client. A nil hc gets a client with cfg.Timeout
// (10s if unset).
func NewClient(cfg ClientConfig, hc *http.Client) *Client {
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc}
}

// Call fetches the golden call for id.
func (c *Client) Call(ctx context.Context, id string) (*Call, error) {
	var call Call
	if err := c.do(ctx, http.MethodGet, "/api/golden-call/"+url.PathEscape(id), nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

type searchQuery struct {
	Query     string         `json:"query"`
	Filters   map[string]any `json:"filters,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// SubmitSearch posts a search query and returns the raw response body.
func (c *Client) SubmitSearch(ctx context.Context, query string, filters map[string]any) (json.RawMessage, error) {
	body := searchQuery{
		Query:     query,
		Filters:   filters,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/search", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("golden: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("golden: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if c.cfg.Environment != "" {
		req.Header.Set("X-Environment", c.cfg.Environment)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("golden: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("golden: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("golden: decode response: %w", err)
	}
	return nil
}
