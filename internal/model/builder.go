package model

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/survey"
)

// Builder converts survey definitions into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if len(options.Metadata) > 0 {
		opts.Metadata = make(map[string]string, len(options.Metadata))
		for k, v := range options.Metadata {
			opts.Metadata[k] = v
		}
	}
	return &Builder{opts: opts}
}

// Build transforms a survey into a FormModel with one field per question in
// display order. The input survey is not modified.
func (b *Builder) Build(s survey.Survey) (FormModel, error) {
	if err := s.Check(); err != nil {
		return FormModel{}, fmt.Errorf("model builder: %w", err)
	}

	form := FormModel{
		SurveyID:    s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      s.Status,
		Version:     s.Version,
		Metadata:    make(map[string]string),
	}
	setIf(form.Metadata, "createdBy", s.CreatedBy)
	setIf(form.Metadata, "createdDate", s.CreatedDate)
	setIf(form.Metadata, "modifiedBy", s.ModifiedBy)
	setIf(form.Metadata, "modifiedDate", s.ModifiedDate)
	for k, v := range b.opts.Metadata {
		form.Metadata[k] = v
	}
	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}

	ordered := s.Ordered()
	form.Fields = make([]Field, 0, len(ordered))
	for _, q := range ordered {
		field, err := b.fieldFromQuestion(q)
		if err != nil {
			return FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}

func (b *Builder) fieldFromQuestion(q survey.Question) (Field, error) {
	field := Field{
		Name:         q.ID,
		QuestionType: q.Type,
		Kind:         FieldKindScalar,
		Label:        strings.TrimSpace(q.Text),
		HelpText:     q.HelpText,
		Section:      q.Section,
		Required:     q.Required,
		Order:        q.Order,
		Default:      survey.EmptyValue(),
		Validations:  RulesFor(q),
		Metadata:     map[string]string{"inputType": inputType(q)},
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(q.ID)
	}
	if _, ok := field.Rule(ValidationRuleRequired); ok {
		field.Required = true
	}
	if options := q.Options(); len(options) > 0 {
		field.Options = append([]string(nil), options...)
	}
	if len(q.Logic) > 0 {
		field.Logic = append([]survey.ConditionalLogic(nil), q.Logic...)
	}

	switch q.Type {
	case survey.QuestionMultipleChoice:
		field.Kind = FieldKindGroup
		field.Default = survey.ListValue()
	case survey.QuestionSingleChoice:
	case survey.QuestionText:
		field.Placeholder = q.TextInput.Placeholder
	case survey.QuestionRating:
		field.Scale = q.Rating.Scale
	case survey.QuestionCheckbox:
		field.Default = survey.BoolValue(q.Checkbox.Checked)
	case survey.QuestionDate:
		setIf(field.Metadata, "min", q.Date.MinDate)
		setIf(field.Metadata, "max", q.Date.MaxDate)
	case survey.QuestionNumber:
		field.Placeholder = q.Number.Placeholder
		if q.Number.MinValue != nil {
			field.Metadata["min"] = formatFloat(*q.Number.MinValue)
		}
		if q.Number.MaxValue != nil {
			field.Metadata["max"] = formatFloat(*q.Number.MaxValue)
		}
	case survey.QuestionTextarea:
		field.Placeholder = q.Textarea.Placeholder
		field.Rows = q.Textarea.Rows
	case survey.QuestionDropdown:
		if q.Dropdown.Multiple {
			field.Kind = FieldKindGroup
			field.Default = survey.ListValue()
			field.Metadata["multiple"] = "true"
		}
	case survey.QuestionFileUpload:
		field.Accept = strings.Join(q.File.AcceptedFileTypes, ",")
	default:
		return Field{}, fmt.Errorf("model builder: question %q: %w: %q", q.ID, survey.ErrUnknownQuestionType, q.Type)
	}

	return field, nil
}

// inputType maps a question type to the HTML input control renderers use.
func inputType(q survey.Question) string {
	switch q.Type {
	case survey.QuestionMultipleChoice:
		return "checkbox-group"
	case survey.QuestionSingleChoice:
		return "radio"
	case survey.QuestionText:
		return "text"
	case survey.QuestionRating:
		return "rating"
	case survey.QuestionCheckbox:
		return "checkbox"
	case survey.QuestionDate:
		return "date"
	case survey.QuestionNumber:
		return "number"
	case survey.QuestionTextarea:
		return "textarea"
	case survey.QuestionDropdown:
		return "select"
	case survey.QuestionFileUpload:
		return "file"
	default:
		return "text"
	}
}

func setIf(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
