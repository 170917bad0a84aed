package vanilla

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render/template"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

const fieldTemplate = "templates/field.tpl"

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		overrides:      overrides,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the markup of one field: its chrome (label, help text,
// error list) around the component control.
func (r *componentRenderer) render(field model.Field, value any, errors []string) (string, error) {
	componentName := r.overrides[field.Name]
	if componentName == "" {
		componentName = field.Metadata["inputType"]
	}
	if componentName == "" {
		componentName = components.NameText
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	values := valueStrings(value)
	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		ControlID:     controlID(field.Name),
		Values:        values,
		Invalid:       len(errors) > 0,
	}
	choices := field.Options
	if componentName == components.NameRating {
		choices = ratingOptions(field.Scale)
	}
	for _, choice := range choices {
		data.Options = append(data.Options, components.Option{
			Value:   choice,
			ID:      optionID(field.Name, choice),
			Checked: slices.Contains(values, choice),
		})
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}
	r.usedComponents[descriptor.Name] = struct{}{}

	markup, err := r.templates.RenderTemplate(fieldTemplate, map[string]any{
		"classes":   chromeClasses(),
		"name":      field.Name,
		"id":        data.ControlID,
		"component": descriptor.Name,
		"fieldset":  usesFieldset(descriptor.Name),
		"label":     field.Label,
		"required":  field.Required,
		"helpText":  field.HelpText,
		"control":   control.String(),
		"errors":    errors,
	})
	if err != nil {
		return "", fmt.Errorf("render chrome for field %q: %w", field.Name, err)
	}
	return markup, nil
}

func (r *componentRenderer) stylesheets() []string {
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

// valueStrings flattens a prefill value into the strings controls compare
// against. Files cannot be prefilled and yield nothing.
func valueStrings(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case survey.Value:
		switch v.Kind {
		case survey.KindList:
			return v.List
		case survey.KindString, survey.KindNumber, survey.KindBool:
			return []string{v.String()}
		default:
			return nil
		}
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case bool:
		return []string{strconv.FormatBool(v)}
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(v)}
	default:
		return []string{strings.TrimSpace(fmt.Sprint(v))}
	}
}
