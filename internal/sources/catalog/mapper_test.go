package catalog

import (
	"testing"
)

func TestMapperMapTracks(t *testing.T) {
	config := CatalogConfig{
		{
			"Techno": []map[string]TrackProps{
				{
					"Energy Flash": {
						Artist:   "Joey Beltram",
						Label:    "R&S Records",
						Year:     "1990",
						BPM:      148,
						Verified: true,
					},
				},
				{
					"Spastik": {
						Artist: "Plastikman",
						Year:   "1993",
					},
				},
			},
		},
	}

	mapper := NewMapper()
	tracks, err := mapper.MapTracks(config)
	if err != nil {
		t.Fatalf("MapTracks() error = %v", err)
	}

	if len(tracks) != 2 {
		t.Errorf("MapTracks() returned %v tracks, want 2", len(tracks))
	}

	found := false
	for _, track := range tracks {
		if track.ID == "lib_joey-beltram_energy-flash" {
			found = true
			if track.Genre != "Techno" {
				t.Errorf("track Genre = %v, want Techno", track.Genre)
			}
			if !track.Verified {
				t.Error("track Verified = false, want true")
			}
		}
	}
	if !found {
		t.Error("MapTracks() did not produce lib_joey-beltram_energy-flash")
	}
}

func TestMapperMapTracksEmptyConfig(t *testing.T) {
	config := CatalogConfig{}
	mapper := NewMapper()
	tracks, err := mapper.MapTracks(config)

	if err == nil {
		t.Error("MapTracks() with empty config should return error")
	}

	if tracks != nil {
		t.Errorf("MapTracks() with empty config should return nil tracks, got %v", len(tracks))
	}
}

func TestMapperMapTracksSkipsEntriesWithoutArtist(t *testing.T) {
	config := CatalogConfig{
		{
			"Acid House": []map[string]TrackProps{
				{
					"Acid Tracks": {
						Artist: "Phuture",
					},
				},
				{
					"Orphan Cut": {}, // no artist, skipped
				},
			},
		},
	}

	mapper := NewMapper()
	tracks, err := mapper.MapTracks(config)
	if err != nil {
		t.Fatalf("MapTracks() error = %v", err)
	}

	if len(tracks) != 1 {
		t.Errorf("MapTracks() returned %v tracks, want 1", len(tracks))
	}
}

func TestTrackIDStable(t *testing.T) {
	tests := []struct {
		artist string
		title  string
		want   string
	}{
		{"Joey Beltram", "Energy Flash", "lib_joey-beltram_energy-flash"},
		{"The Prodigy", "Out of Space", "lib_the-prodigy_out-of-space"},
		{"LTJ Bukem", "Music (Happy Raw)", "lib_ltj-bukem_music-happy-raw"},
	}

	for _, tt := range tests {
		if got := trackID(tt.artist, tt.title); got != tt.want {
			t.Errorf("trackID(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}
