package testsupport

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
)

func TestValidAnswersPass(t *testing.T) {
	outcome, err := submission.NewHandler(FeedbackModel(t)).Accept(context.Background(), "r-1", ValidAnswers())
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !outcome.Result.Valid {
		t.Fatalf("fixture answers should be valid: %#v", outcome.Result.Failures)
	}
}

func TestWriteSurveyRoundTrip(t *testing.T) {
	for _, name := range []string{"feedback.json", "feedback.yaml"} {
		path := WriteSurvey(t, name, catalog.ProductFeedback())
		got, err := survey.LoadFile(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if diff := cmp.Diff(catalog.ProductFeedback(), got); diff != "" {
			t.Fatalf("%s round trip mismatch (-want +got):\n%s", name, diff)
		}
	}
}
