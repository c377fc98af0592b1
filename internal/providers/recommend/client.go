package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/utils"
)

// Recommendation is one curated pick for the discovery rail.
type Recommendation struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

// cannedPicks is the always-available fallback rail. Served whenever the
// taste service is unreachable, misconfigured, or answers garbage.
var cannedPicks = []Recommendation{
	{Title: "Energy Flash", Artist: "Joey Beltram", Reason: "Foundational techno, still fills floors"},
	{Title: "Chime", Artist: "Orbital", Reason: "The blueprint for UK rave euphoria"},
	{Title: "Papua New Guinea", Artist: "The Future Sound of London", Reason: "Breakbeat bliss for sunrise sets"},
	{Title: "LFO", Artist: "LFO", Reason: "Bleep techno straight from Sheffield"},
	{Title: "Out of Space", Artist: "The Prodigy", Reason: "Peak-time chaos, every single time"},
}

// Client asks the taste service for picks matched to a user's favorites.
// It never fails upward: any problem degrades to the canned rail.
type Client struct {
	baseURL    string
	apiKey     string
	logger     logger.Logger
	httpClient *http.Client
}

// NewClient creates a taste service client. An empty baseURL means the
// service is not configured and every call serves the canned rail.
func NewClient(baseURL, apiKey string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type recommendRequest struct {
	Genres []string `json:"genres,omitempty"`
	DJs    []string `json:"djs,omitempty"`
	Limit  int      `json:"limit"`
}

type recommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommend returns picks for the given favorites. Total: it always returns
// a non-empty rail.
func (c *Client) Recommend(ctx context.Context, favorites *domain.Favorites) []Recommendation {
	if c.baseURL == "" {
		return canned()
	}

	req := recommendRequest{Limit: len(cannedPicks)}
	if favorites != nil {
		req.Genres = favorites.Genres
		req.DJs = favorites.DJs
	}

	picks, err := c.fetch(ctx, req)
	if err != nil {
		c.logger.Warn("taste service unavailable, serving canned picks", logger.Error(err))
		return canned()
	}
	return picks
}

func (c *Client) fetch(ctx context.Context, reqBody recommendRequest) ([]Recommendation, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/recommendations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	valid := make([]Recommendation, 0, len(parsed.Recommendations))
	for _, r := range parsed.Recommendations {
		if r.Title == "" || r.Artist == "" {
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("taste service returned no usable picks")
	}
	return valid, nil
}

func canned() []Recommendation {
	return append([]Recommendation(nil), cannedPicks...)
}
