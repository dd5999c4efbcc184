// Package client talks to a running smartbudget server.
package client

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

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/server"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20
	userAgent      = "smartbudget-client/1.0"
)

var (
	// ErrUnavailable indicates the server could not be reached.
	ErrUnavailable = errors.New("client: server unavailable")
	// ErrTooLarge indicates the server refused the body size.
	ErrTooLarge = errors.New("client: request too large")
)

// APIError is a rejected request, carrying the server's error body.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("server rejected request (%d): %s [%s]", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// Client calls the smartbudget HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for addr, which may be "host:port" or a full URL.
// Returns nil if addr is empty.
func New(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{},
	}
}

// Snapshot is everything `status` shows about a server.
type Snapshot struct {
	FetchedAt time.Time
	Healthy   bool
	Status    *server.Status
	Events    []server.Event
	Error     error
}

// FetchAll checks health, then fetches status and recent events.
// Partial data is returned even if some requests fail.
func (c *Client) FetchAll(ctx context.Context) *Snapshot {
	snap := &Snapshot{FetchedAt: time.Now()}

	if err := c.Health(ctx); err != nil {
		snap.Error = err
		return snap
	}
	snap.Healthy = true

	st, statusErr := c.Status(ctx)
	if statusErr == nil {
		snap.Status = st
	}
	events, eventsErr := c.Events(ctx)
	if eventsErr == nil {
		snap.Events = events
	}

	if statusErr != nil {
		snap.Error = statusErr
	} else if eventsErr != nil {
		snap.Error = eventsErr
	}
	return snap
}

// Health returns nil when /healthz answers ok.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Categories returns the server's category set.
func (c *Client) Categories(ctx context.Context) (model.CategorySet, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/categories", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Categories model.CategorySet `json:"categories"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("client: parsing categories: %w", err)
	}
	return out.Categories, nil
}

// Status returns the server counters.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil)
	if err != nil {
		return nil, err
	}
	var st server.Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("client: parsing status: %w", err)
	}
	return &st, nil
}

// Events returns the server's recent evaluation events, oldest first.
func (c *Client) Events(ctx context.Context) ([]server.Event, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/events", nil)
	if err != nil {
		return nil, err
	}
	var events []server.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("client: parsing events: %w", err)
	}
	return events, nil
}

// Evaluate submits one request.
func (c *Client) Evaluate(ctx context.Context, req model.Request) (model.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.Result{}, fmt.Errorf("client: encoding request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/v1/evaluate", payload)
	if err != nil {
		return model.Result{}, err
	}
	var res model.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return model.Result{}, fmt.Errorf("client: parsing result: %w", err)
	}
	return res, nil
}

// EvaluateBatch submits many requests at once. Items come back in request order.
func (c *Client) EvaluateBatch(ctx context.Context, reqs []model.Request) ([]server.BatchItem, error) {
	batch := server.BatchRequest{Requests: make([]json.RawMessage, len(reqs))}
	for i, r := range reqs {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("client: encoding request %d: %w", i, err)
		}
		batch.Requests[i] = raw
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("client: encoding batch: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/evaluate/batch", payload)
	if err != nil {
		return nil, err
	}
	var resp server.BatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("client: parsing batch: %w", err)
	}
	return resp.Results, nil
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("client: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return nil, ErrTooLarge
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		apiErr := &APIError{Status: resp.StatusCode}
		var eb server.ErrorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.Field = eb.Field
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	return body, nil
}
