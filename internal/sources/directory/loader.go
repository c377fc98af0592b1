package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the user directory.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new directory loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the directory.yaml file
func (l *Loader) Load() (DirectoryConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}

	var config DirectoryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse directory yaml: %w", err)
	}

	return config, nil
}
