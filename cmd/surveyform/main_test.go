package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

type scriptedDriver struct {
	selects []int
	infos   []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return "", errors.New("unexpected input prompt")
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, errors.New("unexpected confirm prompt")
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, errors.New("unexpected multiselect prompt")
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("unexpected textarea prompt")
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a == nil {
		a = &app{}
	}
	cmd := newAppCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender_BuiltInSurvey(t *testing.T) {
	out, err := run(t, nil, "render", "--action", "/submit")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, fragment := range []string{`data-survey="survey2024"`, `action="/submit"`, `name="q11"`} {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestRender_Only(t *testing.T) {
	out, err := run(t, nil, "render", "--fragment", "--only", "q1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `name="q1"`) || strings.Contains(out, `name="q9"`) {
		t.Fatalf("expected only q1 in output:\n%s", out)
	}
	if strings.Contains(out, "<html") {
		t.Fatalf("fragment output should not contain a document")
	}
}

func TestOpenAPI_Formats(t *testing.T) {
	out, err := run(t, nil, "openapi", "--format", "yaml", "--server", "https://surveys.example.com")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if _, ok := doc["paths"].(map[string]any)["/api/responses"]; !ok {
		t.Fatalf("expected /api/responses in paths")
	}
	if !strings.Contains(out, "https://surveys.example.com") {
		t.Fatalf("expected server URL in document")
	}

	if _, err := run(t, nil, "openapi", "--format", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestSurveyAndCheck(t *testing.T) {
	out, err := run(t, nil, "survey", "--format", "yaml")
	if err != nil {
		t.Fatalf("survey: %v", err)
	}
	path := testsupport.WriteFile(t, "feedback.yaml", []byte(out))

	parsed, err := survey.LoadFile(path)
	if err != nil {
		t.Fatalf("load exported survey: %v", err)
	}
	if diff := cmp.Diff(catalog.ProductFeedback(), parsed); diff != "" {
		t.Fatalf("exported survey mismatch (-want +got):\n%s", diff)
	}

	out, err = run(t, nil, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != path+": ok" {
		t.Fatalf("unexpected check output %q", out)
	}
}

func TestCheck_ReportsIssues(t *testing.T) {
	bad := testsupport.WriteFile(t, "bad.json", []byte(`{"id":"bad","questions":[{"id":"a","type":"Dropdown"}]}`))

	out, err := run(t, nil, "check", "--json", bad)
	if !errors.Is(err, errInvalidDefinitions) {
		t.Fatalf("expected errInvalidDefinitions, got %v", err)
	}
	var results map[string]struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	result := results[bad]
	if result.Valid || len(result.Issues) == 0 {
		t.Fatalf("expected issues for %s: %#v", bad, result)
	}
	if result.Issues[0].Field != "a" {
		t.Fatalf("expected the issue on question a, got %#v", result.Issues)
	}

	if _, err := run(t, nil, "check"); err == nil {
		t.Fatalf("check without a definition should fail")
	}
}

func TestFill_Only(t *testing.T) {
	driver := &scriptedDriver{selects: []int{1, 2}}
	out, err := run(t, &app{driver: driver}, "fill", "--only", "q1,q9")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := map[string]any{"q1": "Weekly", "q9": "UK"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) == 0 || !strings.Contains(driver.infos[0], "Product Feedback") {
		t.Fatalf("expected the survey title first, got %#v", driver.infos)
	}
}

func TestConfigFile(t *testing.T) {
	cfg := testsupport.WriteFile(t, "surveyform.yaml", []byte("render:\n  submit_label: Send answers\nlogging:\n  level: error\n"))

	out, err := run(t, nil, "--config", cfg, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Send answers") {
		t.Fatalf("expected submit label from config")
	}

	if _, err := run(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render"); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestRender_Preset(t *testing.T) {
	preset := testsupport.WriteFile(t, "preset.yaml", []byte("fields:\n  q9:\n    label: Where are you based?\n"))

	out, err := run(t, nil, "render", "--preset", preset)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Where are you based?") {
		t.Fatalf("expected preset label in output")
	}
}
