package survey_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
)

func TestValueFor(t *testing.T) {
	s := catalog.ProductFeedback()
	question := func(id string) survey.Question {
		q, ok := s.Question(id)
		if !ok {
			t.Fatalf("question %s missing", id)
		}
		return q
	}

	tests := []struct {
		name string
		id   string
		raw  any
		want survey.Value
	}{
		{"single choice", "q1", "Daily", survey.StringValue("Daily")},
		{"empty string", "q4", "", survey.EmptyValue()},
		{"multi from any slice", "q2", []any{"Feature A", "Feature C"}, survey.ListValue("Feature A", "Feature C")},
		{"multi from single string", "q10", "Laptop", survey.ListValue("Laptop")},
		{"rating from float", "q3", float64(4), survey.NumberValue(4)},
		{"number from string", "q7", " 12.5 ", survey.NumberValue(12.5)},
		{"number from int", "q7", 7, survey.NumberValue(7)},
		{"checkbox on", "q5", "on", survey.BoolValue(true)},
		{"checkbox bool", "q5", false, survey.BoolValue(false)},
		{"date", "q6", "2023-05-01", survey.StringValue("2023-05-01")},
		{
			"file from map", "q11",
			map[string]any{"name": "shot.png", "type": "image/png", "size": float64(2048)},
			survey.FileValue(survey.FileRef{Name: "shot.png", MIMEType: "image/png", Size: 2048}),
		},
		{"nil", "q9", nil, survey.EmptyValue()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := survey.ValueFor(question(tc.id), tc.raw)
			if err != nil {
				t.Fatalf("ValueFor: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueFor_Mismatch(t *testing.T) {
	s := catalog.ProductFeedback()
	cases := map[string]any{
		"q1":  42.0,
		"q2":  true,
		"q7":  "lots",
		"q5":  "maybe",
		"q11": "shot.png",
	}
	for id, raw := range cases {
		q, _ := s.Question(id)
		if _, err := survey.ValueFor(q, raw); !errors.Is(err, survey.ErrValueMismatch) {
			t.Fatalf("%s: expected ErrValueMismatch for %#v, got %v", id, raw, err)
		}
	}
}

func TestValueIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value survey.Value
		want  bool
	}{
		{"empty", survey.EmptyValue(), true},
		{"blank string", survey.StringValue("   "), true},
		{"string", survey.StringValue("x"), false},
		{"zero number", survey.NumberValue(0), false},
		{"false", survey.BoolValue(false), true},
		{"true", survey.BoolValue(true), false},
		{"empty list", survey.ListValue(), true},
		{"list", survey.ListValue("a"), false},
		{"file", survey.FileValue(survey.FileRef{Name: "a"}), false},
	}
	for _, tc := range tests {
		if got := tc.value.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResponseJSON(t *testing.T) {
	payload := []byte(`{
		"surveyId": "survey2024",
		"respondentId": "r-1",
		"responseTime": "2024-08-02T10:00:00Z",
		"answers": [
			{"questionId": "q1", "value": "Weekly"},
			{"questionId": "q2", "value": ["Feature B"]},
			{"questionId": "q7", "value": 3},
			{"questionId": "q5", "value": true},
			{"questionId": "q11", "value": {"name": "a.jpg", "type": "image/jpeg", "size": 10}}
		]
	}`)

	var resp survey.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	got := resp.AnswerMap()
	want := map[string]survey.Value{
		"q1":  survey.StringValue("Weekly"),
		"q2":  survey.ListValue("Feature B"),
		"q7":  survey.NumberValue(3),
		"q5":  survey.BoolValue(true),
		"q11": survey.FileValue(survey.FileRef{Name: "a.jpg", MIMEType: "image/jpeg", Size: 10}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(resp.Answers[1])
	if err != nil {
		t.Fatalf("marshal answer: %v", err)
	}
	if string(encoded) != `{"questionId":"q2","value":["Feature B"]}` {
		t.Fatalf("unexpected answer encoding: %s", encoded)
	}
}

func TestFileRefSizeMB(t *testing.T) {
	ref := survey.FileRef{Size: 5 * 1048576}
	if got := ref.SizeMB(); got != 5 {
		t.Fatalf("expected 5MB, got %v", got)
	}
}
