package domain

import "testing"

func TestMergeResults_CompositeKeyDedupe(t *testing.T) {
	catalog := []SearchResult{
		{ID: "123", Title: "Out of Space", Type: ResultCatalog},
		{ID: "456", Title: "Chime", Type: ResultCatalog},
	}
	video := []SearchResult{
		// Same raw id as a catalog hit but a different type: both must survive.
		{ID: "123", Title: "Out of Space (Official)", Type: ResultVideo},
		// Identical (id, type) pair: only the first occurrence survives.
		{ID: "456", Title: "Chime (dupe)", Type: ResultVideo},
		{ID: "456", Title: "Chime (dupe 2)", Type: ResultVideo},
	}

	merged := MergeResults(catalog, video)

	if len(merged) != 4 {
		t.Fatalf("merged size = %d, want 4", len(merged))
	}
	counts := map[string]int{}
	for _, r := range merged {
		counts[r.Key()]++
	}
	for key, n := range counts {
		if n != 1 {
			t.Errorf("key %q appears %d times", key, n)
		}
	}
}

func TestMergeResults_PreservesBatchOrder(t *testing.T) {
	a := []SearchResult{{ID: "1", Type: ResultCatalog}}
	b := []SearchResult{{ID: "2", Type: ResultUser}}
	c := []SearchResult{{ID: "3", Type: ResultVideo}}

	merged := MergeResults(a, b, c)

	want := []ResultType{ResultCatalog, ResultUser, ResultVideo}
	for i, r := range merged {
		if r.Type != want[i] {
			t.Fatalf("position %d has type %q, want %q", i, r.Type, want[i])
		}
	}
}

func TestFilterFacet(t *testing.T) {
	results := []SearchResult{
		{ID: "1", Type: ResultCatalog},
		{ID: "2", Type: ResultUser},
		{ID: "3", Type: ResultVideo},
	}

	tests := []struct {
		facet Facet
		want  int
	}{
		{FacetAll, 3},
		{FacetCatalog, 1},
		{FacetUsers, 1},
		{FacetVideo, 1},
		{Facet(""), 3},
	}

	for _, tt := range tests {
		if got := len(FilterFacet(results, tt.facet)); got != tt.want {
			t.Errorf("FilterFacet(%q) size = %d, want %d", tt.facet, got, tt.want)
		}
	}
}

func TestParseFacet(t *testing.T) {
	if ParseFacet("video") != FacetVideo {
		t.Error("video facet not parsed")
	}
	if ParseFacet("bogus") != FacetAll {
		t.Error("unknown facet should default to all")
	}
}
