package main

import (
	"errors"
	"path/filepath"

	"github.com/gram-data/gram"
)

// loadConfigWithDir walks up from startDir looking for .gram.yaml and
// returns both the config and the directory it was found in. A missing
// config is not an error; the returned config is nil.
func loadConfigWithDir(startDir string) (*gram.Config, string, error) {
	dir := startDir

	for {
		cfg, err := gram.LoadConfig(dir)
		if err == nil {
			return cfg, dir, nil
		}

		if !errors.Is(err, gram.ErrConfigNotFound) {
			return nil, startDir, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, startDir, nil
		}

		dir = parent
	}
}
