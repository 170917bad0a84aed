package survey

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a survey definition from JSON or YAML and checks its
// invariants. source is only used in error messages.
func Parse(data []byte, source string) (Survey, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Survey{}, fmt.Errorf("survey: file %s is empty", source)
	}

	var s Survey
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &s); err != nil {
			return Survey{}, fmt.Errorf("survey: parse %s: %w", source, err)
		}
	} else if err := yaml.Unmarshal(data, &s); err != nil {
		return Survey{}, fmt.Errorf("survey: parse %s: %w", source, err)
	}

	if err := s.Check(); err != nil {
		return Survey{}, fmt.Errorf("survey: %s: %w", source, err)
	}
	return s, nil
}

// LoadFS reads and parses a survey definition from fsys.
func LoadFS(fsys fs.FS, path string) (Survey, error) {
	if !isSurveyFile(path) {
		return Survey{}, fmt.Errorf("survey: %s: expected .json, .yaml or .yml", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Survey{}, fmt.Errorf("survey: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFile reads a survey definition from disk.
func LoadFile(path string) (Survey, error) {
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func isSurveyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
