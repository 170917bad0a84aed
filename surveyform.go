// Package surveyform is the top-level entry point: build a form model from a
// survey, render it and accept submissions without wiring the packages by
// hand.
package surveyform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering by question id
// or section.
type FieldSubset = render.FieldSubset

// NewBuilder returns the default form model builder.
func NewBuilder(options ...model.BuilderOption) model.Builder {
	return model.NewBuilder(options...)
}

// NewHandler validates and accepts submissions for m.
func NewHandler(m model.FormModel, options ...submission.HandlerOption) *submission.Handler {
	return submission.NewHandler(m, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML builds the form model for s and renders it with the named
// renderer, the vanilla HTML renderer by default.
func GenerateHTML(ctx context.Context, s survey.Survey, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Survey:   &s,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromFile loads a JSON or YAML definition from disk and renders
// it.
func GenerateHTMLFromFile(ctx context.Context, path, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Path:     path,
		Renderer: rendererName,
	})
}

// WithPreset registers a preset transformer parsed from JSON or YAML bytes.
func WithPreset(data []byte) (orchestrator.Option, error) {
	preset, err := orchestrator.NewPresetTransformer(data)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithTransformer(preset), nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet for serving over HTTP:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(surveyform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
