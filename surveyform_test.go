package surveyform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

func TestGenerateHTML(t *testing.T) {
	preset, err := WithPreset([]byte(`{"title":"Quarterly pulse"}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	out, err := GenerateHTML(context.Background(), catalog.ProductFeedback(), "", preset)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `data-survey="survey2024"`) || !strings.Contains(html, "Quarterly pulse") {
		t.Fatalf("unexpected output:\n%s", html)
	}
}

func TestGenerateHTMLFromFile(t *testing.T) {
	path := testsupport.WriteSurvey(t, "feedback.yml", catalog.ProductFeedback())

	out, err := GenerateHTMLFromFile(context.Background(), path, "vanilla")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `name="q10"`) {
		t.Fatalf("expected q10 in output")
	}

	if _, err := GenerateHTMLFromFile(context.Background(), path, "preact"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestNewHandler(t *testing.T) {
	m := testsupport.FeedbackModel(t)
	outcome, err := NewHandler(m).Accept(context.Background(), "", map[string]any{"q1": "Weekly"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if outcome.Result.Valid {
		t.Fatalf("partial answers should be rejected")
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	css, err := fs.ReadFile(AssetsFS(), "surveyform.css")
	if err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
	if len(css) == 0 {
		t.Fatalf("stylesheet is empty")
	}
}
