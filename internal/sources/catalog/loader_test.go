package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "catalog.yaml")

	yamlContent := `---
- Techno:
    - Energy Flash:
        artist: Joey Beltram
        label: R&S Records
        year: "1990"
        bpm: 148
        verified: true
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config) == 0 {
		t.Fatal("Load() returned empty config")
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/catalog.yaml")
	_, err := loader.Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "catalog.yaml")

	err := os.WriteFile(yamlPath, []byte("{not valid: [yaml"), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	_, err = loader.Load()
	if err == nil {
		t.Error("Load() with malformed YAML should return error")
	}
}
