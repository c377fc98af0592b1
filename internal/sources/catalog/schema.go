package catalog

// CatalogConfig represents the top-level structure of catalog.yaml
// Genres use dynamic keys, so we parse as []map[string][]map[string]TrackProps
type CatalogConfig []map[string][]map[string]TrackProps

// TrackProps contains the actual track properties
type TrackProps struct {
	Artist   string `yaml:"artist"`
	Label    string `yaml:"label,omitempty"`
	Year     string `yaml:"year,omitempty"`
	BPM      int    `yaml:"bpm,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Artwork  string `yaml:"artwork,omitempty"`
	Preview  string `yaml:"preview,omitempty"`
	Verified bool   `yaml:"verified,omitempty"`
	Mix      bool   `yaml:"mix,omitempty"`
}
