package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that runs on every built form model
// before decorators.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the form model right
// before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		for _, decorator := range decorators {
			if decorator != nil {
				o.decorators = append(o.decorators, decorator)
			}
		}
	}
}

// WithSurveyFS resolves Request.Path against fsys instead of the local disk.
func WithSurveyFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.surveyFS = fsys
	}
}

// Orchestrator coordinates the pipeline from survey definition to rendered
// output. The zero configuration builds with the default builder and renders
// with the vanilla HTML renderer.
type Orchestrator struct {
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	surveyFS        fs.FS
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Survey is used as is when set.
	Survey *survey.Survey

	// Path names a JSON or YAML definition, read from the configured FS or
	// the local disk. Ignored when Survey is set.
	Path string

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions carries per-request values, errors and subsets.
	RenderOptions render.RenderOptions
}

// Model resolves the survey of req and returns the transformed and decorated
// form model.
func (o *Orchestrator) Model(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if o.initialiseErr != nil {
		return model.FormModel{}, o.initialiseErr
	}

	s, err := o.resolveSurvey(req)
	if err != nil {
		return model.FormModel{}, err
	}

	form, err := o.builder.Build(s)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	for _, decorator := range o.decorators {
		if err := decorator.Decorate(&form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return form, nil
}

// Generate runs the full pipeline and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Model(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) resolveSurvey(req Request) (survey.Survey, error) {
	if req.Survey != nil {
		if err := req.Survey.Check(); err != nil {
			return survey.Survey{}, fmt.Errorf("orchestrator: %w", err)
		}
		return *req.Survey, nil
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return survey.Survey{}, errors.New("orchestrator: survey or path is required")
	}

	var (
		s   survey.Survey
		err error
	)
	if o.surveyFS != nil {
		s, err = survey.LoadFS(o.surveyFS, path)
	} else {
		s, err = survey.LoadFile(path)
	}
	if err != nil {
		return survey.Survey{}, fmt.Errorf("orchestrator: load survey: %w", err)
	}
	return s, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry != nil {
		return
	}
	renderer, err := vanilla.New()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry, o.initialiseErr = render.NewRegistry(renderer)
}
