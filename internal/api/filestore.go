package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// definitionsFile is the top-level YAML document of a definition file.
type definitionsFile struct {
	Definitions []Definition `yaml:"definitions"`
}

// FileStore is a Store backed by a YAML file. The file is re-read on
// every ListAll call; the table cache in front of it decides how often
// that actually happens.
type FileStore struct {
	path string
}

// NewFileStore creates a store reading definitions from the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ListAll reads and parses the definition file.
func (s *FileStore) ListAll(ctx context.Context) ([]Definition, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions parses YAML bytes into a validated definition list.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var f definitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	if err := validateDefinitions(f.Definitions); err != nil {
		return nil, err
	}

	return f.Definitions, nil
}

// validateDefinitions checks that every definition can actually route.
// Wildcard host syntax is not validated here; a host that fails pattern
// compilation is skipped by the table builder instead.
func validateDefinitions(defs []Definition) error {
	for i, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("definition %d: id cannot be empty", i)
		}
		if d.TargetURL == "" {
			return fmt.Errorf("definition %d (%s): target_url cannot be empty", i, d.ID)
		}
		if !d.Routable() {
			return fmt.Errorf("definition %d (%s): needs a public_host or a path", i, d.ID)
		}
		if d.Path != "" && !strings.HasPrefix(d.Path, "/") {
			return fmt.Errorf("definition %d (%s): path must start with /", i, d.ID)
		}
	}
	return nil
}
