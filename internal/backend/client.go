// Package backend is the gateway's client for the SanjerFIT core REST API.
// The core API owns all persistence; this client only moves records back and
// forth, replaying the admin's bearer token on every call. Failures are
// terminal per attempt; there are no automatic retries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds ordinary API calls.
const DefaultTimeout = 15 * time.Second

// UploadTimeout bounds multipart uploads, which carry image/video payloads.
const UploadTimeout = 60 * time.Second

// Client talks to the core API.
type Client struct {
	baseURL       string
	defaultClient *http.Client
	uploadClient  *http.Client // for multipart bodies that need longer timeouts
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		defaultClient: &http.Client{
			Timeout: timeout,
		},
		uploadClient: &http.Client{
			Timeout: UploadTimeout,
		},
	}
}

// Page is the backend's paginated list envelope. Data stays raw so each
// context decodes its own wire shape.
type Page struct {
	Data        json.RawMessage `json:"data"`
	Total       int             `json:"total"`
	CurrentPage int             `json:"current_page"`
	PerPage     int             `json:"per_page"`
	LastPage    int             `json:"last_page"`
}

// List fetches a collection. Some routes return the full envelope, others a
// bare array; both are accepted.
func (c *Client) List(ctx context.Context, token, path string, query url.Values) (Page, error) {
	var page Page

	resp, err := c.do(ctx, token, http.MethodGet, path, query, nil, "")
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return page, responseError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("read list body: %w", err)
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		page.Data = trimmed
		return page, nil
	}

	if err := json.Unmarshal(raw, &page); err != nil {
		return page, fmt.Errorf("decode list body: %w", err)
	}
	return page, nil
}

// GetJSON fetches a single resource into out.
func (c *Client) GetJSON(ctx context.Context, token, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, token, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// PostJSON creates a resource. The backend's response record, when present,
// is decoded into out so the caller can normalize and append it.
func (c *Client) PostJSON(ctx context.Context, token, path string, payload, out any) error {
	return c.sendJSON(ctx, token, http.MethodPost, path, payload, out)
}

// PutJSON sends a partial or full update.
func (c *Client) PutJSON(ctx context.Context, token, path string, payload, out any) error {
	return c.sendJSON(ctx, token, http.MethodPut, path, payload, out)
}

// Patch issues an action-style PATCH (e.g. a prize toggle). payload may be
// nil.
func (c *Client) Patch(ctx context.Context, token, path string, payload, out any) error {
	return c.sendJSON(ctx, token, http.MethodPatch, path, payload, out)
}

// Delete removes a resource. Local state must only change after this
// returns nil.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	resp, err := c.do(ctx, token, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}
	return decodeInto(resp, nil)
}

func (c *Client) sendJSON(ctx context.Context, token, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	resp, err := c.do(ctx, token, method, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.defaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	return resp, nil
}

// UnwrapRecord tolerates the backend's habit of wrapping single records in
// {"data": {...}} on some routes and returning them bare on others.
func UnwrapRecord(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		return envelope.Data
	}
	return raw
}

// decodeInto closes the response and decodes a 2xx body into out (skipped
// when out is nil or the body is empty).
func decodeInto(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
