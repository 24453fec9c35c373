// Package upstream is the typed client for the bus ticketing platform's REST
// API. It owns the wire shapes of every consumed endpoint and maps HTTP
// statuses to domain errors; nothing above it sees raw responses.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type errorPayload struct {
	Message string `json:"message"`
}

// do issues one request with the caller's bearer token and decodes the JSON
// response into out (when out is non-nil). Non-2xx statuses come back as
// domain errors; a 401 in particular means the session token is no longer
// accepted and must not be retried.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to platform API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode platform API response: %w", err)
	}

	return nil
}

func (c *Client) mapError(resp *http.Response) error {
	var payload errorPayload

	// Error bodies are best effort; the status code alone is authoritative.
	json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrSessionInvalid
	case http.StatusNotFound:
		return domain.ErrRecordNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		if payload.Message != "" {
			return fmt.Errorf("platform API returned %d: %s", resp.StatusCode, payload.Message)
		}

		return fmt.Errorf("platform API returned %d", resp.StatusCode)
	}
}
