// Package store keeps accepted survey responses.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/goliatone/go-surveyform/pkg/survey"
)

// Store appends and lists responses per survey.
type Store interface {
	Append(ctx context.Context, resp survey.Response) error
	List(ctx context.Context, surveyID string) ([]survey.Response, error)
}

var safeID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	responses map[string][]survey.Response
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{responses: make(map[string][]survey.Response)}
}

func (m *Memory) Append(ctx context.Context, resp survey.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[resp.SurveyID] = append(m.responses[resp.SurveyID], resp)
	return nil
}

func (m *Memory) List(ctx context.Context, surveyID string) ([]survey.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]survey.Response(nil), m.responses[surveyID]...), nil
}

// JSONLines writes one file per survey under a directory, one response per
// line.
type JSONLines struct {
	dir string
	mu  sync.Mutex
}

// NewJSONLines creates dir when missing.
func NewJSONLines(dir string) (*JSONLines, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &JSONLines{dir: dir}, nil
}

func (s *JSONLines) path(surveyID string) (string, error) {
	if !safeID.MatchString(surveyID) {
		return "", fmt.Errorf("store: invalid survey id %q", surveyID)
	}
	return filepath.Join(s.dir, surveyID+".jsonl"), nil
}

func (s *JSONLines) Append(ctx context.Context, resp survey.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(resp.SurveyID)
	if err != nil {
		return err
	}
	line, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("store: encode response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return f.Close()
}

func (s *JSONLines) List(ctx context.Context, surveyID string) ([]survey.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(surveyID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	var out []survey.Response
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var resp survey.Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("store: %s:%d: %w", path, line, err)
		}
		out = append(out, resp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return out, nil
}
