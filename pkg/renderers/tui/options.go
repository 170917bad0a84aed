package tui

import (
	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures the prefixes used for informational and error lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected answers before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// FileResolver turns a path typed at a file prompt into a file reference.
type FileResolver func(path string) (survey.FileRef, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate answers prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithFormOptions forwards options to the runtime form built for each run,
// e.g. form.WithConditionalLogic.
func WithFormOptions(opts ...form.Option) Option {
	return func(r *Renderer) {
		r.formOptions = append(r.formOptions, opts...)
	}
}

// WithFileResolver replaces the default resolver, which stats the path on the
// local filesystem.
func WithFileResolver(fn FileResolver) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.resolveFile = fn
		}
	}
}

// WithMaxAttempts bounds how often a question is asked again after failing
// validation. Zero means no limit.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
