package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/survey"
)

func sampleResponse(id string) survey.Response {
	return survey.Response{
		SurveyID:     "survey2024",
		RespondentID: id,
		ResponseTime: time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC),
		Answers: []survey.Answer{
			{QuestionID: "q1", Value: survey.StringValue("Daily")},
			{QuestionID: "q2", Value: survey.ListValue("Feature A")},
			{QuestionID: "q3", Value: survey.NumberValue(4)},
			{QuestionID: "q5", Value: survey.BoolValue(true)},
			{QuestionID: "q11", Value: survey.FileValue(survey.FileRef{Name: "a.png", MIMEType: "image/png", Size: 10})},
		},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.List(ctx, "survey2024")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no responses, got %d", len(empty))
	}

	want := []survey.Response{sampleResponse("r1"), sampleResponse("r2")}
	for _, resp := range want {
		if err := s.Append(ctx, resp); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.List(ctx, "survey2024")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestJSONLines(t *testing.T) {
	s, err := NewJSONLines(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseStore(t, s)
}

func TestJSONLines_RejectsUnsafeIDs(t *testing.T) {
	s, err := NewJSONLines(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	resp := sampleResponse("r1")
	resp.SurveyID = "../escape"
	if err := s.Append(context.Background(), resp); err == nil {
		t.Fatalf("expected error for unsafe survey id")
	}
}
