package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-surveyform/internal/store"
	pkgrender "github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

var fixedNow = time.Date(2024, 8, 2, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	opts = append([]Option{WithStore(mem), WithClock(func() time.Time { return fixedNow })}, opts...)
	srv, err := New(testsupport.Context(), catalog.ProductFeedback(), opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, mem
}

func do(t *testing.T, srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, srv http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/responses", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return do(t, srv, req)
}

func TestPostResponse_Created(t *testing.T) {
	srv, mem := newTestServer(t)

	rec := postJSON(t, srv, testsupport.ValidAnswers())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var resp survey.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SurveyID != "survey2024" || resp.RespondentID == "" {
		t.Fatalf("unexpected response header fields: %#v", resp)
	}
	if !resp.ResponseTime.Equal(fixedNow) {
		t.Fatalf("unexpected response time %v", resp.ResponseTime)
	}
	var ids []string
	for _, answer := range resp.Answers {
		ids = append(ids, answer.QuestionID)
	}
	want := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("answer order mismatch (-want +got):\n%s", diff)
	}

	stored, _ := mem.List(context.Background(), "survey2024")
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored response, got %d", len(stored))
	}

	list := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/responses", nil))
	var listed []survey.Response
	if err := json.Unmarshal(list.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].RespondentID != resp.RespondentID {
		t.Fatalf("list mismatch: %#v", listed)
	}
}

func TestPostResponse_Envelope(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv, map[string]any{"respondentId": "r-42", "answers": testsupport.ValidAnswers()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var resp survey.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RespondentID != "r-42" {
		t.Fatalf("expected respondent r-42, got %q", resp.RespondentID)
	}
}

func TestPostResponse_Unprocessable(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv, mem := newTestServer(t, WithLogger(zap.New(core)))

	answers := testsupport.ValidAnswers()
	answers["q1"] = ""
	answers["q7"] = 250
	answers["q99"] = "extra"

	rec := postJSON(t, srv, answers)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}

	var mapping pkgrender.ErrorMapping
	if err := json.Unmarshal(rec.Body.Bytes(), &mapping); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"q1", "q7"} {
		if len(mapping.Fields[field]) == 0 {
			t.Errorf("expected messages for %s, got %#v", field, mapping.Fields)
		}
	}
	if len(mapping.Form) == 0 {
		t.Errorf("unknown question should become a form-level message")
	}

	if stored, _ := mem.List(context.Background(), "survey2024"); len(stored) != 0 {
		t.Fatalf("rejected submissions must not be stored")
	}
	if logs.FilterMessage("submission rejected").Len() != 1 {
		t.Fatalf("expected a rejection log entry")
	}
}

func TestPostResponse_Malformed(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{"q1":`, `null`, `[1,2]`} {
		req := httptest.NewRequest(http.MethodPost, "/api/responses", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := do(t, srv, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestGetPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	html := rec.Body.String()
	for _, fragment := range []string{
		`data-survey="survey2024"`,
		`<input type="hidden" name="_survey" value="survey2024">`,
		`action="/"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("page missing %q", fragment)
		}
	}
}

func TestPostPage_InvalidRerenders(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{
		"_survey": {"survey2024"},
		"q4":      {"Fast"},
		"q7":      {"many"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	html := rec.Body.String()
	for _, fragment := range []string{
		`id="sf-q1-errors"`,
		`id="sf-q7-errors"`,
		`value="Fast"`,
		`value="many"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("page missing %q", fragment)
		}
	}
}

func TestPostPage_WrongSurvey(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"_survey": {"other"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "This form was rendered for survey") {
		t.Fatalf("expected form-level survey mismatch message")
	}
}

func TestPostPage_WrongSurveyNotStored(t *testing.T) {
	srv, mem := newTestServer(t)

	form := url.Values{
		"_survey": {"other"},
		"q1":      {"Weekly"},
		"q2":      {"Feature A"},
		"q3":      {"4"},
		"q4":      {"Fast"},
		"q5":      {"true"},
		"q6":      {"2022-03-15"},
		"q7":      {"3"},
		"q9":      {"UK"},
		"q10":     {"Laptop"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	stored, err := mem.List(context.Background(), "survey2024")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected post must not be stored, got %d responses", len(stored))
	}
}

func TestPostPage_UntickedCheckboxReadsFalse(t *testing.T) {
	mem := store.NewMemory()
	prefs := survey.Survey{
		ID: "prefs",
		Questions: []survey.Question{
			{ID: "newsletter", Type: survey.QuestionCheckbox, Order: 1, Checkbox: &survey.Checkbox{Checked: true}},
		},
	}
	srv, err := New(testsupport.Context(), prefs, WithStore(mem), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	form := url.Values{"_survey": {"prefs"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	stored, _ := mem.List(context.Background(), "prefs")
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored response, got %d", len(stored))
	}
	if diff := cmp.Diff(survey.BoolValue(false), stored[0].AnswerMap()["newsletter"]); diff != "" {
		t.Fatalf("newsletter mismatch (-want +got):\n%s", diff)
	}
}

func TestPostPage_MultipartAccepted(t *testing.T) {
	srv, mem := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"_survey", "survey2024"},
		{"q1", "Weekly"},
		{"q2", "Feature A"},
		{"q2", "Feature C"},
		{"q3", "4"},
		{"q4", "Fast"},
		{"q5", "true"},
		{"q6", "2022-03-15"},
		{"q7", "3"},
		{"q8", ""},
		{"q9", "UK"},
		{"q10", "Laptop"},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="q11"; filename="shot.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.WriteString(part, "\x89PNG fake image"); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := do(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	html := rec.Body.String()
	for _, fragment := range []string{"Thank you!", "<dd>Feature A, Feature C</dd>", "shot.png (image/png, 15 bytes)"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("receipt missing %q", fragment)
		}
	}

	stored, _ := mem.List(context.Background(), "survey2024")
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored response, got %d", len(stored))
	}
	answers := stored[0].AnswerMap()
	if diff := cmp.Diff(survey.BoolValue(true), answers["q5"]); diff != "" {
		t.Fatalf("q5 mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/healthz", "application/json", `"status":"ok"`},
		{"/api/survey", "application/json", `"survey2024"`},
		{"/api/form", "application/json", `"surveyId":"survey2024"`},
		{"/openapi.json", "application/json", `"/api/responses"`},
		{"/openapi.yaml", "application/yaml", "/api/responses:"},
		{"/assets/surveyform.css", "text/css", ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := do(t, srv, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tc.contentType) {
				t.Fatalf("unexpected content type %q", ct)
			}
			if !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("body missing %q:\n%s", tc.contains, rec.Body)
			}
		})
	}
}
