package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/utils"
)

// Client is a minimal JSON-over-HTTP client for the Nexus cloud post store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a cloud store client. baseURL must not be empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type appendResponse struct {
	ID string `json:"id"`
}

// Append mirrors a post and returns the server-assigned identity.
func (c *Client) Append(ctx context.Context, post *domain.Post) (string, error) {
	var resp appendResponse
	if err := c.post(ctx, "/v1/posts", post, &resp); err != nil {
		return "", fmt.Errorf("append post: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("append post: server assigned no id")
	}
	return resp.ID, nil
}

// IncrementCounter bumps a named counter on a cloud post.
func (c *Client) IncrementCounter(ctx context.Context, postID, counter string) error {
	path := fmt.Sprintf("/v1/posts/%s/counters/%s", postID, counter)
	if err := c.post(ctx, path, struct {
		Delta int `json:"delta"`
	}{Delta: 1}, nil); err != nil {
		return fmt.Errorf("increment %s: %w", counter, err)
	}
	return nil
}

// AppendComment appends a comment to a cloud post.
func (c *Client) AppendComment(ctx context.Context, postID string, comment domain.Comment) error {
	path := fmt.Sprintf("/v1/posts/%s/comments", postID)
	if err := c.post(ctx, path, comment, nil); err != nil {
		return fmt.Errorf("append comment: %w", err)
	}
	return nil
}

// WipeAll deletes every post in the cloud store.
func (c *Client) WipeAll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/posts", nil)
	if err != nil {
		return fmt.Errorf("build wipe request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wipe posts: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("wipe posts: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// post sends a JSON request and decodes the response into out when out is
// non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
