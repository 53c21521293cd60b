package gram

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = ".gram.yaml"

// ErrConfigNotFound is returned when no .gram.yaml exists in a directory.
var ErrConfigNotFound = errors.New("gram: no .gram.yaml found")

// Config represents the .gram.yaml configuration file used by the gram CLI.
type Config struct {
	// MaxDepth overrides the parser's nesting limit when positive.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Neo4j configures the optional pattern loader.
	Neo4j *Neo4jConfig `yaml:"neo4j,omitempty"`
}

// Neo4jConfig holds Neo4j connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// LoadConfig reads .gram.yaml from the given directory.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path is derived from the caller's dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}

		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}
