package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/search"
)

type countingSource struct {
	calls   atomic.Int32
	results []domain.SearchResult
}

func (s *countingSource) Search(_ context.Context, _ string) ([]domain.SearchResult, error) {
	s.calls.Add(1)
	return append([]domain.SearchResult(nil), s.results...), nil
}

func newLiveSearchSession(t *testing.T, src search.Source) (*websocket.Conn, func() int32) {
	t.Helper()

	counting, _ := src.(*countingSource)
	log := logger.New("error", false)
	d := deps.Deps{
		Logger:           log,
		Aggregator:       search.NewAggregator(src, nil, nil, 3, log),
		DebounceInterval: 10 * time.Millisecond,
	}

	srv := httptest.NewServer(LiveSearch(d))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, func() int32 {
		if counting == nil {
			return 0
		}
		return counting.calls.Load()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) searchResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame searchResponse
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestLiveSearch_FacetChangeReFiltersWithoutRefetch(t *testing.T) {
	src := &countingSource{results: []domain.SearchResult{
		{ID: "lib_1", Title: "Jungle Techno", Type: domain.ResultCatalog},
	}}
	conn, calls := newLiveSearchSession(t, src)

	require.NoError(t, conn.WriteJSON(liveQuery{Query: "jungle"}))
	frame := readFrame(t, conn)
	assert.Equal(t, "jungle", frame.Query)
	require.Equal(t, 1, frame.Count)
	require.EqualValues(t, 1, calls())

	// A facet-only message must keep the fetched results and never reach
	// the sources.
	require.NoError(t, conn.WriteJSON(liveQuery{Facet: domain.FacetVideo}))
	frame = readFrame(t, conn)
	assert.Equal(t, "jungle", frame.Query)
	assert.Equal(t, domain.FacetVideo, frame.Facet)
	assert.Equal(t, 0, frame.Count)
	assert.EqualValues(t, 1, calls())

	// Switching back recovers the same fetched set.
	require.NoError(t, conn.WriteJSON(liveQuery{Facet: domain.FacetCatalog}))
	frame = readFrame(t, conn)
	assert.Equal(t, "jungle", frame.Query)
	assert.Equal(t, 1, frame.Count)
	assert.EqualValues(t, 1, calls())
}

func TestLiveSearch_RepeatedQueryDoesNotRefetch(t *testing.T) {
	src := &countingSource{results: []domain.SearchResult{
		{ID: "lib_1", Title: "Jungle Techno", Type: domain.ResultCatalog},
	}}
	conn, calls := newLiveSearchSession(t, src)

	require.NoError(t, conn.WriteJSON(liveQuery{Query: "jungle"}))
	frame := readFrame(t, conn)
	require.Equal(t, 1, frame.Count)
	require.EqualValues(t, 1, calls())

	// Resending the current query alongside a facet answers from the
	// session cache.
	require.NoError(t, conn.WriteJSON(liveQuery{Query: "jungle", Facet: domain.FacetAll}))
	frame = readFrame(t, conn)
	assert.Equal(t, "jungle", frame.Query)
	assert.Equal(t, 1, frame.Count)
	assert.EqualValues(t, 1, calls())

	// A genuinely new query goes through the sources again.
	require.NoError(t, conn.WriteJSON(liveQuery{Query: "breakbeat"}))
	frame = readFrame(t, conn)
	assert.Equal(t, "breakbeat", frame.Query)
	assert.EqualValues(t, 2, calls())
}
