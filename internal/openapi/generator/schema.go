package generator

import (
	"math"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-surveyform/internal/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// AnswersSchema describes the JSON body accepted by the responses endpoint:
// one property per field, keyed by question id.
func AnswersSchema(m model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = m.Title
	for _, field := range m.Fields {
		schema.WithProperty(field.Name, FieldSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}

// FieldSchema maps one field and its validation rules onto a JSON schema.
func FieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch {
	case field.Kind == model.FieldKindGroup:
		schema = openapi3.NewArraySchema().WithItems(enumSchema(field.Options))
		if n, ok := intRule(field, model.ValidationRuleMinLength); ok {
			schema.WithMinItems(int64(n))
		} else if field.Required {
			schema.WithMinItems(1)
		}
		if n, ok := intRule(field, model.ValidationRuleMaxLength); ok {
			schema.WithMaxItems(int64(n))
		}
		schema.UniqueItems = true

	case field.QuestionType == survey.QuestionCheckbox:
		schema = openapi3.NewBoolSchema()

	case field.QuestionType == survey.QuestionRating, field.QuestionType == survey.QuestionNumber:
		if field.QuestionType == survey.QuestionRating {
			schema = openapi3.NewIntegerSchema()
		} else {
			schema = openapi3.NewFloat64Schema()
		}
		if v, ok := floatRule(field, model.ValidationRuleMin); ok {
			schema.WithMin(v)
		}
		if v, ok := floatRule(field, model.ValidationRuleMax); ok {
			schema.WithMax(v)
		}

	case field.QuestionType == survey.QuestionFileUpload:
		schema = fileRefSchema(field)

	case len(field.Options) > 0:
		schema = enumSchema(field.Options)

	default:
		schema = openapi3.NewStringSchema()
		if field.QuestionType == survey.QuestionDate {
			schema.WithFormat("date")
		}
		if n, ok := intRule(field, model.ValidationRuleMinLength); ok {
			schema.WithMinLength(int64(n))
		}
		if n, ok := intRule(field, model.ValidationRuleMaxLength); ok {
			schema.WithMaxLength(int64(n))
		}
		if rule, ok := field.Rule(model.ValidationRulePattern); ok && rule.Params["pattern"] != "" {
			schema.WithPattern("^(?:" + rule.Params["pattern"] + ")$")
		}
	}

	schema.Description = field.Label
	if field.HelpText != "" {
		schema.Description += "\n\n" + field.HelpText
	}
	if bounds := dateBounds(field); bounds != "" {
		schema.Description += "\n\n" + bounds
	}
	return schema
}

func enumSchema(options []string) *openapi3.Schema {
	values := make([]any, len(options))
	for i, option := range options {
		values[i] = option
	}
	return openapi3.NewStringSchema().WithEnum(values...)
}

// fileRefSchema describes a file reference. Accepted types go into the
// description since they may contain wildcards.
func fileRefSchema(field model.Field) *openapi3.Schema {
	size := openapi3.NewInt64Schema().WithMin(0)
	if limit, ok := floatRule(field, model.ValidationRuleMaxSize); ok {
		size.WithMax(math.Floor(limit * (1 << 20)))
	}
	mimeType := openapi3.NewStringSchema()
	if rule, ok := field.Rule(model.ValidationRuleAcceptedFileTypes); ok {
		mimeType.Description = "One of: " + strings.ReplaceAll(rule.Params["types"], ",", ", ")
	}

	schema := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", mimeType).
		WithProperty("size", size)
	schema.Required = []string{"name", "type", "size"}
	return schema
}

func responseSchema() *openapi3.Schema {
	answer := openapi3.NewObjectSchema().
		WithProperty("questionId", openapi3.NewStringSchema()).
		WithPropertyRef("value", openapi3.NewSchemaRef("", &openapi3.Schema{}))
	answer.Required = []string{"questionId", "value"}

	schema := openapi3.NewObjectSchema().
		WithProperty("surveyId", openapi3.NewStringSchema()).
		WithProperty("respondentId", openapi3.NewStringSchema()).
		WithProperty("responseTime", openapi3.NewDateTimeSchema()).
		WithProperty("answers", openapi3.NewArraySchema().WithItems(answer))
	schema.Required = []string{"surveyId", "respondentId", "responseTime", "answers"}
	return schema
}

func errorMappingSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	fields := openapi3.NewObjectSchema().WithAdditionalProperties(messages)
	return openapi3.NewObjectSchema().
		WithProperty("fields", fields).
		WithProperty("form", messages)
}

func dateBounds(field model.Field) string {
	lo, hasLo := field.Rule(model.ValidationRuleMinDate)
	hi, hasHi := field.Rule(model.ValidationRuleMaxDate)
	switch {
	case hasLo && hasHi:
		return "Between " + lo.Params["value"] + " and " + hi.Params["value"] + "."
	case hasLo:
		return "On or after " + lo.Params["value"] + "."
	case hasHi:
		return "On or before " + hi.Params["value"] + "."
	}
	return ""
}

func intRule(field model.Field, kind string) (int, bool) {
	rule, ok := field.Rule(kind)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rule.Params["value"])
	return n, err == nil
}

func floatRule(field model.Field, kind string) (float64, bool) {
	rule, ok := field.Rule(kind)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(rule.Params["value"], 64)
	return v, err == nil
}
