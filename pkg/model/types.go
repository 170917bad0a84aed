package model

import (
	internalmodel "github.com/goliatone/go-surveyform/internal/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindScalar = internalmodel.FieldKindScalar
	FieldKindGroup  = internalmodel.FieldKindGroup
)

const (
	ValidationRuleRequired          = internalmodel.ValidationRuleRequired
	ValidationRuleMin               = internalmodel.ValidationRuleMin
	ValidationRuleMax               = internalmodel.ValidationRuleMax
	ValidationRuleMinLength         = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength         = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern           = internalmodel.ValidationRulePattern
	ValidationRuleMinDate           = internalmodel.ValidationRuleMinDate
	ValidationRuleMaxDate           = internalmodel.ValidationRuleMaxDate
	ValidationRuleAcceptedFileTypes = internalmodel.ValidationRuleAcceptedFileTypes
	ValidationRuleMaxSize           = internalmodel.ValidationRuleMaxSize
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

// DefaultLabeler is the label function used when none is configured.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// RulesFor derives the ordered validation rules for a single question,
// including the bounds implied by its variant payload.
func RulesFor(q survey.Question) []ValidationRule {
	return internalmodel.RulesFor(q)
}
