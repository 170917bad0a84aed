package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with one component per input type.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer("forms.radio", templatePrefix+"radio.tpl"),
	})
	registry.MustRegister(NameCheckboxGroup, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox-group", templatePrefix+"checkbox_group.tpl"),
	})
	registry.MustRegister(NameRating, Descriptor{
		Renderer: templateComponentRenderer("forms.rating", templatePrefix+"rating.tpl"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.tpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tpl"),
	})
	registry.MustRegister(NameFile, Descriptor{
		Renderer: templateComponentRenderer("forms.file", templatePrefix+"file.tpl"),
	})
	for _, name := range []string{NameText, NameDate, NameNumber} {
		registry.MustRegister(name, Descriptor{
			Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tpl"),
		})
	}

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, controlPayload(field, data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func controlPayload(field model.Field, data ComponentData) map[string]any {
	options := make([]map[string]any, 0, len(data.Options))
	for _, option := range data.Options {
		options = append(options, map[string]any{
			"value":   option.Value,
			"id":      option.ID,
			"checked": option.Checked,
		})
	}

	payload := map[string]any{
		"id":          data.ControlID,
		"name":        field.Name,
		"inputType":   field.Metadata["inputType"],
		"value":       data.Value(),
		"options":     options,
		"required":    field.Required,
		"invalid":     data.Invalid,
		"placeholder": field.Placeholder,
		"rows":        field.Rows,
		"accept":      field.Accept,
		"multiple":    field.Metadata["multiple"] == "true",
		"min":         field.Metadata["min"],
		"max":         field.Metadata["max"],
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		payload["maxlength"] = rule.Params["value"]
	}
	if rule, ok := field.Rule(model.ValidationRulePattern); ok {
		payload["pattern"] = rule.Params["pattern"]
	}
	return payload
}
