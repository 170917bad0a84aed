package submission_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-surveyform/pkg/form"
	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

func feedbackModel(t *testing.T) pkgmodel.FormModel {
	t.Helper()
	m, err := pkgmodel.NewBuilder().Build(catalog.ProductFeedback())
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}

func validAnswers() map[string]any {
	return map[string]any{
		"q1":  "Weekly",
		"q2":  []any{"Feature A", "Feature C"},
		"q3":  float64(4),
		"q4":  "The dashboards",
		"q5":  true,
		"q6":  "2021-06-15",
		"q7":  float64(3),
		"q8":  "",
		"q9":  "Canada",
		"q10": []string{"Laptop"},
		"q11": map[string]any{"name": "bug.png", "type": "image/png", "size": float64(5 << 20)},
	}
}

func TestSubmit_ValidFormEmitsEveryAnswer(t *testing.T) {
	f, err := form.New(feedbackModel(t))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if failures := submission.Fill(f, validAnswers()); failures != nil {
		t.Fatalf("fill failures: %#v", failures)
	}

	result := submission.Submit(f)
	if !result.Valid {
		t.Fatalf("expected valid result, failures: %#v", result.Failures)
	}
	if result.Failures != nil {
		t.Fatalf("valid result must not carry failures")
	}
	if err := result.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if len(result.Values) != 11 {
		t.Fatalf("expected 11 values, got %d", len(result.Values))
	}
	if diff := cmp.Diff(survey.ListValue("Feature A", "Feature C"), result.Values["q2"]); diff != "" {
		t.Fatalf("q2 mismatch (-want +got):\n%s", diff)
	}
	if !result.Values["q8"].IsEmpty() {
		t.Fatalf("optional q8 should be present and empty, got %#v", result.Values["q8"])
	}
}

func TestSubmit_RequiredEmptyEmitsNoValues(t *testing.T) {
	f, err := form.New(feedbackModel(t))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	answers := validAnswers()
	delete(answers, "q1")
	submission.Fill(f, answers)

	result := submission.Submit(f)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if result.Values != nil {
		t.Fatalf("invalid result must not emit values, got %#v", result.Values)
	}
	if diff := cmp.Diff([]string{"q1"}, result.FailingFields()); diff != "" {
		t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
	}
	if got := result.Failures["q1"][0].Rule; got != "required" {
		t.Fatalf("expected required failure, got %q", got)
	}

	err = result.Err()
	if !errors.Is(err, submission.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var invalid *submission.InvalidError
	if !errors.As(err, &invalid) || invalid.Fields[0] != "q1" {
		t.Fatalf("expected *InvalidError for q1, got %#v", err)
	}
	if _, err := result.ToResponse("survey2024", "", time.Now()); !errors.Is(err, submission.ErrInvalid) {
		t.Fatalf("ToResponse on invalid result should fail with ErrInvalid, got %v", err)
	}
}

func TestFill_ReportsShapeProblems(t *testing.T) {
	f, err := form.New(feedbackModel(t))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	failures := submission.Fill(f, map[string]any{
		"q1":  "Hourly",
		"q7":  "lots",
		"q42": "?",
	})

	got := map[string]string{}
	for id, list := range failures {
		got[id] = list[0].Rule
	}
	want := map[string]string{
		"q1":  submission.RuleType,
		"q7":  submission.RuleType,
		"q42": submission.RuleUnknown,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fill failures mismatch (-want +got):\n%s", diff)
	}

	result := submission.Submit(f).Merge(failures)
	if result.Valid {
		t.Fatalf("merged result should be invalid")
	}
	fields := result.FailingFields()
	if fields[len(fields)-1] != "q42" {
		t.Fatalf("unknown ids should sort after form fields, got %v", fields)
	}
}

func TestResult_ToResponse(t *testing.T) {
	f, err := form.New(feedbackModel(t), form.WithValues(validAnswers()))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	result := submission.Submit(f)
	at := time.Date(2024, 8, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	resp, err := result.ToResponse("survey2024", "respondent-1", at)
	if err != nil {
		t.Fatalf("to response: %v", err)
	}
	if resp.RespondentID != "respondent-1" || !resp.ResponseTime.Equal(at) || resp.ResponseTime.Location() != time.UTC {
		t.Fatalf("unexpected response header %+v", resp)
	}
	var ids []string
	for _, answer := range resp.Answers {
		ids = append(ids, answer.QuestionID)
	}
	want := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("answer order mismatch (-want +got):\n%s", diff)
	}

	anonymous, err := result.ToResponse("survey2024", "", at)
	if err != nil {
		t.Fatalf("to response: %v", err)
	}
	if anonymous.RespondentID != "" {
		t.Fatalf("respondent id should be left to the caller, got %q", anonymous.RespondentID)
	}
}

func TestMapErrors(t *testing.T) {
	m := feedbackModel(t)
	mapping := submission.MapErrors(m, map[string][]validation.Failure{
		"q1":  {{Rule: "required", Message: "This question is required."}},
		"q99": {{Rule: submission.RuleUnknown, Message: "This question is not part of the survey."}},
	})

	want := map[string][]string{"q1": {"This question is required."}}
	if diff := cmp.Diff(want, mapping.Fields); diff != "" {
		t.Fatalf("field messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"This question is not part of the survey."}, mapping.Form); diff != "" {
		t.Fatalf("form messages mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_Accept(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var delivered []survey.Response
	fixed := time.Date(2024, 8, 2, 9, 30, 0, 0, time.UTC)

	handler := submission.NewHandler(feedbackModel(t),
		submission.WithLogger(zap.New(core)),
		submission.WithClock(func() time.Time { return fixed }),
		submission.WithSink(func(_ context.Context, resp survey.Response) error {
			delivered = append(delivered, resp)
			return nil
		}),
	)

	outcome, err := handler.Accept(context.Background(), "r-7", validAnswers())
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if outcome.Response == nil || outcome.Response.RespondentID != "r-7" || !outcome.Response.ResponseTime.Equal(fixed) {
		t.Fatalf("unexpected response %+v", outcome.Response)
	}
	if len(delivered) != 1 {
		t.Fatalf("expected sink to receive 1 response, got %d", len(delivered))
	}

	rejected, err := handler.Accept(context.Background(), "r-8", map[string]any{"q1": "Daily"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if rejected.Result.Valid || rejected.Response != nil {
		t.Fatalf("expected rejection, got %+v", rejected.Result)
	}
	if len(delivered) != 1 {
		t.Fatalf("rejected submissions must not reach the sink")
	}

	messages := []string{}
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	if diff := cmp.Diff([]string{"submission accepted", "submission rejected"}, messages); diff != "" {
		t.Fatalf("log messages mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SinkError(t *testing.T) {
	boom := errors.New("boom")
	handler := submission.NewHandler(feedbackModel(t), submission.WithSink(func(context.Context, survey.Response) error {
		return boom
	}))
	if _, err := handler.Accept(context.Background(), "", validAnswers()); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestHandler_AcceptGeneratesRespondentID(t *testing.T) {
	handler := submission.NewHandler(feedbackModel(t))
	outcome, err := handler.Accept(context.Background(), " ", validAnswers())
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if outcome.Response == nil || len(outcome.Response.RespondentID) != 36 {
		t.Fatalf("expected generated uuid, got %+v", outcome.Response)
	}
}

func TestHandler_CheckSkipsSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	delivered := 0
	handler := submission.NewHandler(feedbackModel(t),
		submission.WithLogger(zap.New(core)),
		submission.WithSink(func(context.Context, survey.Response) error {
			delivered++
			return nil
		}),
	)

	outcome, err := handler.Check(validAnswers())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !outcome.Result.Valid || outcome.Response != nil {
		t.Fatalf("expected a valid result without a response, got %+v", outcome)
	}
	if delivered != 0 || logs.Len() != 0 {
		t.Fatalf("check must not deliver or log, got %d deliveries and %d log entries", delivered, logs.Len())
	}
}
