package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/internal/openapi/generator"
	"github.com/goliatone/go-surveyform/pkg/model"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Option configures Generate.
type Option func(*generator.Options)

// WithServers advertises base URLs in the document.
func WithServers(urls ...string) Option {
	return func(o *generator.Options) {
		o.Servers = append(o.Servers, urls...)
	}
}

// Document is a generated, validated OpenAPI document.
type Document struct {
	raw   []byte
	title string
	paths []string
}

// Generate describes the API serving m.
func Generate(ctx context.Context, m model.FormModel, options ...Option) (Document, error) {
	opts := generator.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	spec, err := generator.Generate(ctx, m, opts)
	if err != nil {
		return Document{}, err
	}
	raw, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("openapi: encode: %w", err)
	}

	paths := make([]string, 0, spec.Paths.Len())
	for path := range spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return Document{raw: raw, title: spec.Info.Title, paths: paths}, nil
}

// Parse validates an encoded document, JSON or YAML.
func Parse(ctx context.Context, raw []byte) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	spec, err := generator.Validate(ctx, raw)
	if err != nil {
		return Document{}, err
	}
	encoded, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("openapi: encode: %w", err)
	}

	var paths []string
	if spec.Paths != nil {
		for path := range spec.Paths.Map() {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	title := ""
	if spec.Info != nil {
		title = spec.Info.Title
	}
	return Document{raw: encoded, title: title, paths: paths}, nil
}

// Title returns the API title, the survey title.
func (d Document) Title() string { return d.title }

// Paths lists the documented paths, sorted.
func (d Document) Paths() []string { return append([]string(nil), d.paths...) }

// JSON returns a copy of the indented JSON encoding.
func (d Document) JSON() []byte { return append([]byte(nil), d.raw...) }

// Encode returns the document in the requested format. YAML keeps the key
// order of the JSON encoding.
func (d Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return d.JSON(), nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(d.raw, &node); err != nil {
			return nil, fmt.Errorf("openapi: decode for yaml: %w", err)
		}
		clearStyle(&node)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("openapi: unknown format %q", format)
	}
}

// clearStyle drops the flow and quoting styles yaml.v3 records when reading
// JSON so the output is block-style YAML. Strings that would read back as
// another type are still quoted by the encoder.
func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
