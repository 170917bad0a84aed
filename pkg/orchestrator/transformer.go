package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Transformer mutates a FormModel before decorators run. Implementations can
// relabel fields, move them between sections or inject metadata.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document:
//
//	title: Customer pulse
//	metadata:
//	  campaign: spring
//	fields:
//	  q1:
//	    label: How often do you open the app?
//	    section: Usage
//	    order: 2
//
// Field ids are question ids and cannot be renamed, since answers are keyed
// by them.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Metadata    map[string]string      `yaml:"metadata"`
	Fields      map[string]fieldPreset `yaml:"fields"`
}

type fieldPreset struct {
	Label       string            `yaml:"label"`
	HelpText    string            `yaml:"helpText"`
	Placeholder string            `yaml:"placeholder"`
	Section     string            `yaml:"section"`
	Order       *int              `yaml:"order"`
	Metadata    map[string]string `yaml:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches onto form. A patch for an unknown field is
// an error.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}
	form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)

	reorder := false
	for _, name := range sortedKeys(t.document.Fields) {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		patch := t.document.Fields[name]
		applyFieldPreset(field, patch)
		reorder = reorder || patch.Order != nil
	}

	if reorder {
		sort.SliceStable(form.Fields, func(i, j int) bool {
			return form.Fields[i].Order < form.Fields[j].Order
		})
	}
	return nil
}

func applyFieldPreset(field *model.Field, patch fieldPreset) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.HelpText != "" {
		field.HelpText = patch.HelpText
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Section != "" {
		field.Section = patch.Section
	}
	if patch.Order != nil {
		field.Order = *patch.Order
	}
	field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
}

func findField(fields []model.Field, name string) *model.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
