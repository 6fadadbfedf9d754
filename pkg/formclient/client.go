// Package formclient is a Go client for the chart form API. A Controller
// owns the lifecycle of one form record for one check-in: resolve-or-create,
// local field editing gated on lock state, curated partial saves, and the
// sign/lock transitions.
package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client calls the form API. The bearer token is injected here, never read
// from ambient state.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zerolog.Logger
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests, custom transports).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithLogger enables debug logging of every request.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	c.logger = &logger
	return c
}

// APIError is a non-2xx response. Detail carries the server's error message
// when the body is a `{"detail": ...}` envelope.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("form api request")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Detail = envelope.Detail
		}
		return apiErr
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// listRecords fetches the collection filtered by checkin. Both a bare array
// and a `{results: [...]}` envelope are accepted.
func (c *Client) listRecords(ctx context.Context, path, checkinID string) ([]map[string]interface{}, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/"+path+"/?checkin="+checkinID, nil, &raw); err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var envelope struct {
		Results []map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return envelope.Results, nil
}

func (c *Client) createRecord(ctx context.Context, path, checkinID string) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := c.do(ctx, http.MethodPost, "/"+path+"/", map[string]interface{}{"checkin": checkinID}, &rec)
	return rec, err
}

func (c *Client) patchRecord(ctx context.Context, path, id string, payload map[string]interface{}) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := c.do(ctx, http.MethodPatch, "/"+path+"/"+id+"/", payload, &rec)
	return rec, err
}

func (c *Client) signRecord(ctx context.Context, path, id string, body map[string]interface{}) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := c.do(ctx, http.MethodPost, "/"+path+"/"+id+"/sign/", body, &rec)
	return rec, err
}

func (c *Client) lockRecord(ctx context.Context, path, id string) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := c.do(ctx, http.MethodPost, "/"+path+"/"+id+"/lock/", map[string]interface{}{}, &rec)
	return rec, err
}

func (c *Client) unlockRecord(ctx context.Context, path, id string) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := c.do(ctx, http.MethodPost, "/"+path+"/"+id+"/unlock/", map[string]interface{}{}, &rec)
	return rec, err
}
