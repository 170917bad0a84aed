package model

import (
	"fmt"

	"github.com/goliatone/go-surveyform/internal/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// Builder converts survey definitions into form models.
type Builder interface {
	Build(s survey.Survey) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler    func(string) string
	metadata   map[string]string
	decorators []Decorator
}

// WithLabeler overrides the default label generation function used for
// questions without text.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithMetadata adds a key to the metadata of every built form model.
func WithMetadata(key, value string) BuilderOption {
	return func(opts *builderOptions) {
		if opts.metadata == nil {
			opts.metadata = make(map[string]string)
		}
		opts.metadata[key] = value
	}
}

// WithDecorators registers decorators applied, in order, after each build.
func WithDecorators(decorators ...Decorator) BuilderOption {
	return func(opts *builderOptions) {
		for _, decorator := range decorators {
			if decorator != nil {
				opts.decorators = append(opts.decorators, decorator)
			}
		}
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := model.Options{Metadata: cfg.metadata}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	inner := model.New(internalOpts)
	if len(cfg.decorators) == 0 {
		return inner
	}
	return &decoratedBuilder{inner: inner, decorators: cfg.decorators}
}

type decoratedBuilder struct {
	inner      Builder
	decorators []Decorator
}

func (b *decoratedBuilder) Build(s survey.Survey) (FormModel, error) {
	form, err := b.inner.Build(s)
	if err != nil {
		return FormModel{}, err
	}
	for _, decorator := range b.decorators {
		if err := decorator.Decorate(&form); err != nil {
			return FormModel{}, fmt.Errorf("model builder: decorate: %w", err)
		}
	}
	return form, nil
}
