// Package testsupport holds fixtures shared by tests across packages.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// FeedbackModel builds the form model of the built-in feedback survey.
func FeedbackModel(t *testing.T) pkgmodel.FormModel {
	t.Helper()

	form, err := pkgmodel.NewBuilder().Build(catalog.ProductFeedback())
	if err != nil {
		t.Fatalf("build feedback model: %v", err)
	}
	return form
}

// ValidAnswers returns a fresh answer set that passes every rule of the
// feedback survey, in the shape a JSON client would post.
func ValidAnswers() map[string]any {
	return map[string]any{
		"q1":  "Weekly",
		"q2":  []string{"Feature A", "Feature C"},
		"q3":  4,
		"q4":  "Fast",
		"q5":  true,
		"q6":  "2022-03-15",
		"q7":  3,
		"q8":  "",
		"q9":  "UK",
		"q10": []string{"Laptop"},
		"q11": map[string]any{"name": "shot.png", "type": "image/png", "size": 2048},
	}
}

// WriteSurvey writes s to a temporary file named name. The extension picks
// the encoding: .json writes JSON, anything else YAML.
func WriteSurvey(t *testing.T, name string, s survey.Survey) string {
	t.Helper()

	var (
		data []byte
		err  error
	)
	if filepath.Ext(name) == ".json" {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		t.Fatalf("marshal survey: %v", err)
	}
	return WriteFile(t, name, data)
}

// WriteFile writes data to a temporary file and returns its path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CaptureTemplateOutput runs render with a buffer and returns what it
// returned alongside what it wrote.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
