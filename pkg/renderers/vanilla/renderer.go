// Package vanilla renders survey form models as server-side HTML using the
// pongo2 template engine. The output needs no JavaScript.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	rendertemplate "github.com/goliatone/go-surveyform/pkg/render/template"
	gotemplate "github.com/goliatone/go-surveyform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// ThemeStylesheetKey is the asset key resolved through the theme's AssetURL
// to link an extra stylesheet.
const ThemeStylesheetKey = "vanilla.stylesheet"

const (
	formTemplate    = "templates/form.tpl"
	receiptTemplate = "templates/thanks.tpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	theme            *theme.RendererConfig
	stylesheet       *string
	fragment         bool
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Templates missing
// there fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithComponentOverrides forces a component per question id, e.g.
// {"q9": "radio"}.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for name, component := range overrides {
			cfg.overrides[strings.TrimSpace(name)] = strings.TrimSpace(component)
		}
	}
}

// WithTheme applies a go-theme renderer configuration: CSS variables, the
// theme name and variant, partial overrides and asset URLs.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithStylesheet replaces the inline default stylesheet. An empty string
// disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// WithFragment renders only the <form> element instead of a full document.
func WithFragment() Option {
	return func(cfg *config) {
		cfg.fragment = true
	}
}

// WithSubmitLabel overrides the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cfg.submitLabel = trimmed
		}
	}
}

// Renderer renders FormModels to HTML. It is safe for concurrent use.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	overrides   map[string]string
	theme       *theme.RendererConfig
	stylesheet  string
	document    bool
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		submitLabel: "Submit",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{gotemplate.WithFS(cfg.templateFS)}
		if cfg.templatesDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		overrides:   cfg.overrides,
		theme:       cfg.theme,
		stylesheet:  stylesheet,
		document:    !cfg.fragment,
		submitLabel: cfg.submitLabel,
	}, nil
}

func (r *Renderer) Name() string        { return "vanilla" }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the HTML form for form, prefilled with options.Values and
// annotated with options.Errors.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := form
	sanitizeModel(&view)
	render.ApplySubset(&view, options.Subset)

	var partials map[string]string
	if r.theme != nil {
		partials = r.theme.Partials
	}
	fields := newComponentRenderer(r.templates, r.registry, r.overrides, partials)

	var sections []map[string]any
	index := make(map[string]int)
	for _, field := range view.Fields {
		markup, err := fields.render(field, options.Values[field.Name], options.Errors[field.Name])
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		pos, ok := index[field.Section]
		if !ok {
			pos = len(sections)
			index[field.Section] = pos
			sections = append(sections, map[string]any{"title": field.Section, "fields": []string{}})
		}
		sections[pos]["fields"] = append(sections[pos]["fields"].([]string), markup)
	}

	hidden := render.SortedHiddenFields(render.MergeHiddenFields(nil, append(render.SurveyFields(form), options.Hidden...)...))
	hiddenData := make([]map[string]string, 0, len(hidden))
	for _, field := range hidden {
		hiddenData = append(hiddenData, map[string]string{"name": field.Name, "value": field.Value})
	}

	stylesheets := fields.stylesheets()
	if href := r.themeAsset(ThemeStylesheetKey); href != "" {
		stylesheets = append([]string{href}, stylesheets...)
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"document":    r.document,
		"form":        formData(view),
		"sections":    sections,
		"hidden":      hiddenData,
		"formErrors":  options.FormErrors,
		"method":      formMethod(options.Method),
		"action":      options.Action,
		"classes":     chromeClasses(),
		"stylesheet":  r.stylesheet,
		"stylesheets": stylesheets,
		"theme":       r.themeData(),
		"submitLabel": r.submitLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderReceipt produces the confirmation page listing an accepted response.
func (r *Renderer) RenderReceipt(ctx context.Context, form model.FormModel, resp survey.Response) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := form
	sanitizeModel(&view)

	answers := make([]map[string]string, 0, len(resp.Answers))
	for _, answer := range resp.Answers {
		label := answer.QuestionID
		if field, ok := view.Field(answer.QuestionID); ok {
			label = field.Label
		}
		answers = append(answers, map[string]string{"label": label, "value": answer.Value.String()})
	}

	result, err := r.templates.RenderTemplate(receiptTemplate, map[string]any{
		"form":         formData(view),
		"respondentId": resp.RespondentID,
		"answers":      answers,
		"classes":      chromeClasses(),
		"stylesheet":   r.stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render receipt: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) themeAsset(key string) string {
	if r.theme == nil || r.theme.AssetURL == nil {
		return ""
	}
	return strings.TrimSpace(r.theme.AssetURL(key))
}

func (r *Renderer) themeData() map[string]string {
	if r.theme == nil {
		return map[string]string{}
	}
	return map[string]string{
		"name":    r.theme.Theme,
		"variant": r.theme.Variant,
		"cssVars": cssVarsStyle(r.theme.CSSVars),
	}
}

func formData(form model.FormModel) map[string]any {
	return map[string]any{
		"surveyId":    form.SurveyID,
		"title":       form.Title,
		"description": form.Description,
		"version":     form.Version,
	}
}

func formMethod(method string) string {
	if strings.EqualFold(strings.TrimSpace(method), "get") {
		return "get"
	}
	return "post"
}

// cssVarsStyle renders custom properties as "--a: 1; --b: 2;" sorted by name.
// Names without the leading dashes get them added.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	normalized := make(map[string]string, len(vars))
	names := make([]string, 0, len(vars))
	for key, value := range vars {
		name := "--" + strings.TrimLeft(strings.TrimSpace(key), "-")
		if _, seen := normalized[name]; !seen {
			names = append(names, name)
		}
		normalized[name] = strings.TrimSpace(value)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+normalized[name]+";")
	}
	return strings.Join(parts, " ")
}
