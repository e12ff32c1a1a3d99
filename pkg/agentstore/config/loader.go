package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FromFile loads a backend description from a file, auto-detecting format
// by extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backend{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Backend{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses a YAML backend description.
func FromYAML(data []byte) (Backend, error) {
	var b Backend
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Backend{}, fmt.Errorf("parse yaml: %w", err)
	}
	return b, nil
}

// FromJSON parses a JSON backend description.
func FromJSON(data []byte) (Backend, error) {
	var b Backend
	if err := json.Unmarshal(data, &b); err != nil {
		return Backend{}, fmt.Errorf("parse json: %w", err)
	}
	return b, nil
}

// FromEnv reads a backend description from AGENTSTORE_KIND,
// AGENTSTORE_PATH, and AGENTSTORE_DSN environment variables.
func FromEnv() (Backend, error) {
	var b Backend
	if err := env.Parse(&b); err != nil {
		return Backend{}, fmt.Errorf("parse env: %w", err)
	}
	return b, nil
}
