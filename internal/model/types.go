package model

import "github.com/goliatone/go-surveyform/pkg/survey"

// FieldKind tells the runtime form how to hold a field's state.
type FieldKind string

const (
	// FieldKindScalar holds a single value.
	FieldKindScalar FieldKind = "scalar"
	// FieldKindGroup holds one boolean slot per option; the emitted value is
	// the list of selected options.
	FieldKindGroup FieldKind = "group"
)

const (
	ValidationRuleRequired          = "required"
	ValidationRuleMin               = "min"
	ValidationRuleMax               = "max"
	ValidationRuleMinLength         = "minLength"
	ValidationRuleMaxLength         = "maxLength"
	ValidationRulePattern           = "pattern"
	ValidationRuleMinDate           = "minDate"
	ValidationRuleMaxDate           = "maxDate"
	ValidationRuleAcceptedFileTypes = "acceptedFileTypes"
	ValidationRuleMaxSize           = "maxSize"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds, length limits, date bounds and the size limit (in MB) encode
// their threshold in Params["value"]. Pattern rules keep the expression in
// Params["pattern"] and accepted file types are comma-joined in
// Params["types"]. Parameters are strings to keep JSON snapshots stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models one question inside the generated form.
type Field struct {
	Name         string                    `json:"name"`
	QuestionType survey.QuestionType       `json:"questionType"`
	Kind         FieldKind                 `json:"kind"`
	Label        string                    `json:"label"`
	HelpText     string                    `json:"helpText,omitempty"`
	Section      string                    `json:"section,omitempty"`
	Placeholder  string                    `json:"placeholder,omitempty"`
	Options      []string                  `json:"options,omitempty"`
	Rows         int                       `json:"rows,omitempty"`
	Scale        int                       `json:"scale,omitempty"`
	Accept       string                    `json:"accept,omitempty"`
	Required     bool                      `json:"required"`
	Order        int                       `json:"order"`
	Default      survey.Value              `json:"default"`
	Validations  []ValidationRule          `json:"validations,omitempty"`
	Logic        []survey.ConditionalLogic `json:"logic,omitempty"`
	Metadata     map[string]string         `json:"metadata,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// FormModel is the top-level representation renderers and the runtime form
// consume. Fields are in display order.
type FormModel struct {
	SurveyID    string            `json:"surveyId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      survey.Status     `json:"status,omitempty"`
	Version     int               `json:"version"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Sections lists the distinct section names in display order. Fields without
// a section are grouped under the empty name.
func (m FormModel) Sections() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, field := range m.Fields {
		if _, ok := seen[field.Section]; ok {
			continue
		}
		seen[field.Section] = struct{}{}
		out = append(out, field.Section)
	}
	return out
}
