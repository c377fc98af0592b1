package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/logger"
)

func TestClient_Recommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/recommendations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"recommendations": [
				{"title": "Spastik", "artist": "Plastikman", "reason": "Relentless acid workout"},
				{"title": "", "artist": "Nobody", "reason": "dropped, no title"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", logger.New("error", false))
	picks := c.Recommend(context.Background(), &domain.Favorites{Genres: []string{"acid"}})

	require.Len(t, picks, 1)
	assert.Equal(t, "Spastik", picks[0].Title)
}

func TestClient_RecommendFallsBackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", logger.New("error", false))
	picks := c.Recommend(context.Background(), nil)

	require.NotEmpty(t, picks)
	assert.Equal(t, cannedPicks, picks)
}

func TestClient_RecommendUnconfiguredServesCanned(t *testing.T) {
	c := NewClient("", "", logger.New("error", false))
	picks := c.Recommend(context.Background(), nil)

	require.NotEmpty(t, picks)
	assert.Equal(t, cannedPicks, picks)
}
