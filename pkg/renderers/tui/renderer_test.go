package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	confirm   []bool
	textAreas []string

	inputPos   int
	selectPos  int
	multiPos   int
	confirmPos int
	textPos    int

	selects []SelectConfig
	infos   []string
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func (s *stubDriver) errorLines() []string {
	var out []string
	for _, msg := range s.infos {
		if strings.HasPrefix(msg, "! ") {
			out = append(out, msg)
		}
	}
	return out
}

func feedbackModel(t *testing.T) model.FormModel {
	t.Helper()
	m, err := model.NewBuilder().Build(catalog.ProductFeedback())
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}

func fakeFile(path string) (survey.FileRef, error) {
	return survey.FileRef{Name: path, MIMEType: "image/png", Size: 2048}, nil
}

func TestRenderer_FullSession(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Fast", "2019-05-01", "2022-03-15", "abc", "3", "shot.png"},
		selectIdx: []int{1, 3, 2},
		multiIdx:  [][]int{{}, {0, 2}, {1}},
		confirm:   []bool{true},
		textAreas: []string{""},
	}
	r, err := New(WithPromptDriver(driver), WithFileResolver(fakeFile))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), feedbackModel(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := map[string]any{
		"q1":  "Weekly",
		"q2":  []any{"Feature A", "Feature C"},
		"q3":  float64(4),
		"q4":  "Fast",
		"q5":  true,
		"q6":  "2022-03-15",
		"q7":  float64(3),
		"q8":  nil,
		"q9":  "UK",
		"q10": []any{"Laptop"},
		"q11": map[string]any{"name": "shot.png", "type": "image/png", "size": float64(2048)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	// q2 empty (required + minLength), q6 before minDate, q7 not a number
	if n := len(driver.errorLines()); n != 4 {
		t.Fatalf("expected 4 error lines, got %d: %q", n, driver.errorLines())
	}
	if driver.infos[0] != "XYZ Company Product Feedback Survey" {
		t.Fatalf("expected title first, got %q", driver.infos[0])
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderer_SubsetPrettyOutput(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), feedbackModel(t), render.RenderOptions{
		Subset: render.FieldSubset{Names: []string{"q5", "Q1"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "How often do you use our product?: Daily\n" +
		"Do you agree to receive promotional emails from us?: no\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_PrefillAndServerErrors(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{2}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), feedbackModel(t), render.RenderOptions{
		Values: map[string]any{"q1": "Monthly", "unknown": "ignored"},
		Errors: map[string][]string{"q1": {"Pick again."}},
		Subset: render.FieldSubset{Names: []string{"q1"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "q1=Monthly" {
		t.Fatalf("unexpected output %q", out)
	}
	if got := driver.selects[0].DefaultIndex; got != 2 {
		t.Fatalf("expected prefilled default index 2, got %d", got)
	}
	if diff := cmp.Diff([]string{"! Pick again."}, driver.errorLines()); diff != "" {
		t.Fatalf("error lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_OptionalChoiceCanBeSkipped(t *testing.T) {
	s := survey.Survey{
		ID: "mood",
		Questions: []survey.Question{
			{ID: "mood", Type: survey.QuestionRating, Text: "Mood", Order: 1, Rating: &survey.Rating{Scale: 3}},
		},
	}
	m, err := model.NewBuilder().Build(s)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	driver := &stubDriver{selectIdx: []int{0}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.Render(context.Background(), m, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"mood":null}` {
		t.Fatalf("unexpected output %s", out)
	}
	if diff := cmp.Diff([]string{skipOption, "1", "2", "3"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"abc", "-4"}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = r.Render(context.Background(), feedbackModel(t), render.RenderOptions{
		Subset: render.FieldSubset{Names: []string{"q7"}},
	})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRenderer_TransformerAndDriverErrors(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0}}
	r, err := New(
		WithPromptDriver(driver),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["source"] = "cli"
			return values, nil
		}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.Render(context.Background(), feedbackModel(t), render.RenderOptions{
		Subset: render.FieldSubset{Names: []string{"q1"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"q1":"Daily","source":"cli"}` {
		t.Fatalf("unexpected output %s", out)
	}

	// nothing scripted for q2
	_, err = r.Render(context.Background(), feedbackModel(t), render.RenderOptions{
		Subset: render.FieldSubset{Names: []string{"q2"}},
	})
	if err == nil || !strings.Contains(err.Error(), "no multiselect scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}
	if errors.Is(err, submission.ErrInvalid) {
		t.Fatalf("driver errors must not look like invalid submissions")
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("yaml")); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
}
