package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/utils"
)

const (
	// musicCategoryID restricts results to YouTube's music category.
	musicCategoryID = "10"
	// maxResults caps one search page.
	maxResults = "10"
	// querySuffix biases every search toward the scene.
	querySuffix = " rave old skool"
)

// Client searches YouTube for rave footage. It implements the aggregator's
// source shape for the video lane.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a YouTube search client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search queries the music category for the given text. Items missing a
// video id or title are dropped rather than failing the page.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", maxResults)
	params.Set("q", query+querySuffix)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build youtube request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("youtube search: status %d: %s", resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode youtube response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" || item.Snippet.Title == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:        item.ID.VideoID,
			Title:     item.Snippet.Title,
			Artist:    item.Snippet.ChannelTitle,
			Type:      domain.ResultVideo,
			Thumbnail: item.Snippet.Thumbnails.Medium.URL,
			VideoRef:  item.ID.VideoID,
		})
	}
	return results, nil
}
