package survey_test

import (
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
)

func TestSurveyCheck_Catalog(t *testing.T) {
	s := catalog.ProductFeedback()
	if err := s.Check(); err != nil {
		t.Fatalf("catalog survey failed check: %v", err)
	}
	if got := len(s.Questions); got != 11 {
		t.Fatalf("expected 11 questions, got %d", got)
	}
}

func TestSurveyCheck_Errors(t *testing.T) {
	base := func() survey.Survey {
		return survey.Survey{
			ID:     "s",
			Status: survey.StatusDraft,
			Questions: []survey.Question{
				{ID: "a", Type: survey.QuestionText, TextInput: &survey.TextInput{}},
				{ID: "b", Type: survey.QuestionCheckbox, Checkbox: &survey.Checkbox{}},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*survey.Survey)
		want   error
	}{
		{
			name: "duplicate id",
			mutate: func(s *survey.Survey) {
				s.Questions[1] = survey.Question{ID: "a", Type: survey.QuestionText, TextInput: &survey.TextInput{}}
			},
			want: survey.ErrDuplicateQuestion,
		},
		{
			name:   "unknown type",
			mutate: func(s *survey.Survey) { s.Questions[0].Type = "Slider" },
			want:   survey.ErrUnknownQuestionType,
		},
		{
			name:   "payload mismatch",
			mutate: func(s *survey.Survey) { s.Questions[0].TextInput = nil },
			want:   survey.ErrMissingPayload,
		},
		{
			name:   "missing id",
			mutate: func(s *survey.Survey) { s.Questions[0].ID = " " },
			want:   survey.ErrMissingQuestionID,
		},
		{
			name:   "unknown status",
			mutate: func(s *survey.Survey) { s.Status = "Live" },
			want:   survey.ErrUnknownStatus,
		},
		{
			name: "logic target",
			mutate: func(s *survey.Survey) {
				s.Questions[0].Logic = []survey.ConditionalLogic{{QuestionID: "zz", Value: true, Action: survey.LogicShow}}
			},
			want: survey.ErrUnknownLogicTarget,
		},
		{
			name: "logic action",
			mutate: func(s *survey.Survey) {
				s.Questions[0].Logic = []survey.ConditionalLogic{{QuestionID: "b", Value: true, Action: "toggle"}}
			},
			want: survey.ErrUnknownLogicAction,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.mutate(&s)
			err := s.Check()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSurveyOrdered_StableByOrder(t *testing.T) {
	s := survey.Survey{
		Questions: []survey.Question{
			{ID: "c", Order: 3},
			{ID: "a1", Order: 1},
			{ID: "b", Order: 2},
			{ID: "a2", Order: 1},
		},
	}

	var got []string
	for _, q := range s.Ordered() {
		got = append(got, q.ID)
	}
	want := []string{"a1", "a2", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if s.Questions[0].ID != "c" {
		t.Fatalf("Ordered must not reorder the source slice")
	}
}

func TestQuestionJSON_FlatEncoding(t *testing.T) {
	s := catalog.ProductFeedback()
	q10, _ := s.Question("q10")

	data, err := json.Marshal(q10)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if flat["type"] != "Dropdown" || flat["multiple"] != true {
		t.Fatalf("unexpected flat encoding: %s", data)
	}
	if _, ok := flat["options"].([]any); !ok {
		t.Fatalf("options missing from flat encoding: %s", data)
	}

	var decoded survey.Question
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(q10, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestQuestionJSON_UnknownType(t *testing.T) {
	var q survey.Question
	err := json.Unmarshal([]byte(`{"id":"x","type":"Slider"}`), &q)
	if !errors.Is(err, survey.ErrUnknownQuestionType) {
		t.Fatalf("expected ErrUnknownQuestionType, got %v", err)
	}
}

func TestSurveyYAML_RoundTrip(t *testing.T) {
	want := catalog.ProductFeedback()
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}

	got, err := survey.Parse(data, "feedback.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"short.yaml": {Data: []byte(`
id: short
title: Short
status: Published
version: 2
questions:
  - id: mood
    type: Rating
    text: How are you?
    required: true
    order: 1
    scale: 3
  - id: notes
    type: Textarea
    text: Anything else?
    order: 2
    rows: 6
    validation:
      maxLength: 20
`)},
		"short.txt": {Data: []byte(`{}`)},
		"dup.json":  {Data: []byte(`{"id":"d","questions":[{"id":"a","type":"Text"},{"id":"a","type":"Text"}]}`)},
	}

	s, err := survey.LoadFS(fsys, "short.yaml")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	mood, ok := s.Question("mood")
	if !ok || mood.Rating == nil || mood.Rating.Scale != 3 {
		t.Fatalf("rating payload not decoded: %#v", mood)
	}
	notes, _ := s.Question("notes")
	if notes.Textarea == nil || notes.Textarea.Rows != 6 {
		t.Fatalf("textarea payload not decoded: %#v", notes)
	}
	if notes.Validation == nil || notes.Validation.MaxLength == nil || *notes.Validation.MaxLength != 20 {
		t.Fatalf("validation not decoded: %#v", notes.Validation)
	}

	if _, err := survey.LoadFS(fsys, "short.txt"); err == nil {
		t.Fatalf("expected extension error")
	}
	if _, err := survey.LoadFS(fsys, "dup.json"); !errors.Is(err, survey.ErrDuplicateQuestion) {
		t.Fatalf("expected duplicate question error, got %v", err)
	}
}
