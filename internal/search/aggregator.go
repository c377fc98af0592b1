package search

import (
	"context"
	"strings"
	"sync"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/logger"
)

// DefaultMinQueryLen is the shortest query that triggers any source.
const DefaultMinQueryLen = 3

// Source is one search backend. Implementations must be safe for concurrent
// use and should honor ctx cancellation.
type Source interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Aggregator fans a query out to the catalog, directory and video sources
// concurrently and merges their results in fixed display order. A failing
// source contributes an empty batch; one slow or broken backend never takes
// the whole search surface down.
type Aggregator struct {
	catalog   Source
	directory Source
	video     Source
	minLen    int
	logger    logger.Logger
}

// NewAggregator creates an aggregator. Any source may be nil; a nil source
// simply contributes nothing. minLen values below 1 fall back to the
// default.
func NewAggregator(catalog, directory, video Source, minLen int, log logger.Logger) *Aggregator {
	if minLen < 1 {
		minLen = DefaultMinQueryLen
	}
	return &Aggregator{
		catalog:   catalog,
		directory: directory,
		video:     video,
		minLen:    minLen,
		logger:    log,
	}
}

// MinQueryLen reports the minimum query length that triggers a search.
func (a *Aggregator) MinQueryLen() int { return a.minLen }

// Search runs one full aggregation pass. Queries shorter than the minimum
// clear the result set rather than searching. The merged slice keeps the
// fixed source order catalog, users, video; duplicates by (id, type) are
// dropped.
func (a *Aggregator) Search(ctx context.Context, query string) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if len(query) < a.minLen {
		return []domain.SearchResult{}
	}

	sources := []struct {
		name string
		src  Source
	}{
		{"catalog", a.catalog},
		{"directory", a.directory},
		{"video", a.video},
	}

	var wg sync.WaitGroup
	batches := make([][]domain.SearchResult, len(sources))
	for i, s := range sources {
		if s.src == nil {
			continue
		}
		wg.Add(1)
		go func(i int, name string, src Source) {
			defer wg.Done()
			results, err := src.Search(ctx, query)
			if err != nil {
				a.logger.Warn("search source failed",
					logger.String("source", name),
					logger.String("query", query),
					logger.Error(err))
				return
			}
			batches[i] = results
		}(i, s.name, s.src)
	}
	wg.Wait()

	merged := domain.MergeResults(batches[0], batches[1], batches[2])
	if merged == nil {
		merged = []domain.SearchResult{}
	}
	return merged
}
