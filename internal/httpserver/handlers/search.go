package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/search"
)

type searchResponse struct {
	Query   string                `json:"query"`
	Facet   domain.Facet          `json:"facet"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// Search runs one full aggregation pass over all sources. The facet filter
// applies to the merged results without re-triggering any source.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		facet := domain.ParseFacet(r.URL.Query().Get("facet"))

		results := d.Aggregator.Search(r.Context(), query)
		results = domain.FilterFacet(results, facet)

		writeJSON(w, http.StatusOK, searchResponse{
			Query:   query,
			Facet:   facet,
			Results: results,
			Count:   len(results),
		})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Cross-origin is already handled at the middleware layer.
	CheckOrigin: func(*http.Request) bool { return true },
}

type liveQuery struct {
	Query string       `json:"query"`
	Facet domain.Facet `json:"facet,omitempty"`
}

// LiveSearch runs a websocket search session. Keystrokes feed the session
// debouncer, so only queries surviving the quiet period hit the sources.
// The session keeps the last fetched (pre-facet) result set: a facet change
// or a repeated query re-filters that set and answers immediately, without
// touching the debouncer or any source.
func LiveSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Warn("live search upgrade failed", logger.Error(err))
			return
		}
		defer conn.Close()

		var (
			writeMu sync.Mutex
			stateMu sync.Mutex
			facet   = domain.FacetAll
			// Last query that went through the sources and its merged,
			// unfiltered results.
			lastQuery string
			fetched   []domain.SearchResult
		)

		writeFrame := func(query string, f domain.Facet, results []domain.SearchResult) {
			filtered := domain.FilterFacet(results, f)
			if filtered == nil {
				filtered = []domain.SearchResult{}
			}

			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(searchResponse{
				Query:   query,
				Facet:   f,
				Results: filtered,
				Count:   len(filtered),
			}); err != nil {
				d.Logger.Debug("live search write failed", logger.Error(err))
			}
		}

		run := func(query string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			results := d.Aggregator.Search(ctx, query)

			stateMu.Lock()
			lastQuery = query
			fetched = results
			f := facet
			stateMu.Unlock()

			writeFrame(query, f, results)
		}

		debouncer := search.NewDebouncer(d.DebounceInterval, run)
		defer debouncer.Stop()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var q liveQuery
			if err := json.Unmarshal(message, &q); err != nil {
				continue
			}

			stateMu.Lock()
			if q.Facet != "" {
				facet = domain.ParseFacet(string(q.Facet))
			}
			f := facet
			query, results := lastQuery, fetched
			unchanged := q.Query == "" || q.Query == lastQuery
			stateMu.Unlock()

			// Facet-only and repeated-query messages re-filter what is
			// already fetched; only a genuinely new query is debounced
			// toward the sources.
			if unchanged {
				writeFrame(query, f, results)
				continue
			}
			debouncer.Submit(q.Query)
		}
	}
}
