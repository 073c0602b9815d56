// Package client talks to the bracket results store and keeps a local
// mirror of the results document in sync with it.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/playperu/bracket/internal/levels"
	"github.com/playperu/bracket/internal/results"
)

const editKeyHeader = "X-Edit-Key"

// StatusError is a non-2xx answer from the store.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: store returned status %d: %s", e.Op, e.Code, e.Body)
}

// Change is one entry of the store's change feed.
type Change struct {
	Type     results.Kind `json:"type"`
	Category string       `json:"category"`
	Slot     string       `json:"slot"`
}

// Client is an HTTP client for one results store.
type Client struct {
	baseURL string
	origin  string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithOrigin sets the Origin header sent with every request. Stores with
// a non-wildcard allow-list reject writes without one.
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = origin }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) FetchLevels(ctx context.Context) (levels.Dataset, error) {
	var d levels.Dataset
	if err := c.getJSON(ctx, "fetch levels", "/levels", &d); err != nil {
		return nil, err
	}
	if d == nil {
		d = levels.Dataset{}
	}
	return d, nil
}

func (c *Client) FetchResults(ctx context.Context) (results.Document, error) {
	var doc results.Document
	if err := c.getJSON(ctx, "fetch results", "/results", &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = results.Document{}
	}
	return doc, nil
}

type writeBody struct {
	Category string `json:"category"`
	Slot     string `json:"slot"`
	Team     string `json:"team,omitempty"`
	Score    string `json:"score,omitempty"`
	Field    string `json:"field,omitempty"`
	Clear    bool   `json:"clear,omitempty"`
}

// PutSave writes one slot record.
func (c *Client) PutSave(ctx context.Context, req results.SaveRequest, editKey string) error {
	rec := req.Record()
	return c.send(ctx, "save", http.MethodPut, editKey, writeBody{
		Category: req.Category,
		Slot:     req.Slot,
		Team:     rec.Team,
		Score:    rec.Score,
		Field:    rec.Field,
	})
}

// PutClear clears one slot through PUT with clear set.
func (c *Client) PutClear(ctx context.Context, req results.ClearRequest, editKey string) error {
	return c.send(ctx, "clear", http.MethodPut, editKey, writeBody{
		Category: req.Category,
		Slot:     req.Slot,
		Clear:    true,
	})
}

func (c *Client) Delete(ctx context.Context, req results.DeleteRequest, editKey string) error {
	return c.send(ctx, "delete", http.MethodDelete, editKey, writeBody{
		Category: req.Category,
		Slot:     req.Slot,
	})
}

// Events consumes the change feed until ctx is done or the stream ends,
// calling fn for every change.
func (c *Client) Events(ctx context.Context, fn func(Change)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/results/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The feed is long-lived, so the default client timeout must not apply.
	stream := *c.http
	stream.Timeout = 0
	resp, err := stream.Do(req)
	if err != nil {
		return fmt.Errorf("opening change feed: %w", err)
	}
	defer resp.Body.Close()
	if err := c.checkStatus("follow", resp); err != nil {
		return err
	}

	var event, data string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if event == "change" && data != "" {
				var ch Change
				if err := json.Unmarshal([]byte(data), &ch); err != nil {
					c.logger.Warn("skipping malformed change event", "data", data, "error", err)
				} else {
					fn(ch)
				}
			}
			event, data = "", ""
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading change feed: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if err := c.checkStatus(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, editKey string, body writeBody) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encoding body: %w", op, err)
	}
	req, err := c.newRequest(ctx, method, "/results", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(editKeyHeader, editKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if err := c.checkStatus(op, resp); err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	return req, nil
}

func (c *Client) checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	err := &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	c.logger.Warn("store request failed", "op", op, "status", err.Code, "body", err.Body)
	return err
}
