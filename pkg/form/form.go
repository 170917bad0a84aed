// Package form instantiates the runtime state tree for a FormModel: one
// Control per scalar field and one Group of boolean slots per multi-valued
// field, each bound to validators compiled from the field's rules.
//
// A Form is single-owner state and is not safe for concurrent use. Build one
// per submission from a shared, immutable FormModel.
package form

import (
	"errors"
	"fmt"

	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/validation"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrTypeMismatch  = errors.New("value does not match field type")
	ErrUnknownOption = errors.New("unknown option")
	ErrNotGroup      = errors.New("field is not a multi-valued group")
)

// Form is the runtime tree for one FormModel.
type Form struct {
	model  pkgmodel.FormModel
	nodes  map[string]Node
	fields map[string]pkgmodel.Field

	evaluator  visibility.Evaluator
	extras     map[string]any
	rules      map[string]string
	dependents map[string][]string
	hidden     map[string]bool
}

// New builds the tree for m. Rules that fail to compile are reported as
// errors.
func New(m pkgmodel.FormModel, options ...Option) (*Form, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	f := &Form{
		model:  m,
		nodes:  make(map[string]Node, len(m.Fields)),
		fields: make(map[string]pkgmodel.Field, len(m.Fields)),
		hidden: make(map[string]bool),
	}

	for _, field := range m.Fields {
		validators, err := validation.Compile(field.Validations)
		if err != nil {
			return nil, fmt.Errorf("form: field %q: %w", field.Name, err)
		}
		validators = append(validators, cfg.extra[field.Name]...)

		f.fields[field.Name] = field
		switch field.Kind {
		case pkgmodel.FieldKindGroup:
			f.nodes[field.Name] = NewGroup(field.Name, field.Options, validators...)
		default:
			f.nodes[field.Name] = NewControl(field.Name, field.Default, validators...)
		}
	}

	for id, raw := range cfg.initial {
		if err := f.Set(id, raw); err != nil {
			return nil, err
		}
	}

	if cfg.evaluator != nil {
		if err := f.enableLogic(cfg.evaluator, cfg.extras); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Model returns the form model the tree was built from.
func (f *Form) Model() pkgmodel.FormModel { return f.model }

// Fields lists the fields in display order.
func (f *Form) Fields() []pkgmodel.Field { return f.model.Fields }

// Node returns the runtime node for a field.
func (f *Form) Node(id string) (Node, bool) {
	node, ok := f.nodes[id]
	return node, ok
}

// Group returns the group node for a multi-valued field.
func (f *Form) Group(id string) (*Group, error) {
	node, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("form: %w: %q", ErrUnknownField, id)
	}
	group, ok := node.(*Group)
	if !ok {
		return nil, fmt.Errorf("form: %q: %w", id, ErrNotGroup)
	}
	return group, nil
}

// Set coerces raw into the field's value kind and stores it. Group fields
// accept a list of option labels that replaces the current selection.
func (f *Form) Set(id string, raw any) error {
	field, ok := f.fields[id]
	if !ok {
		return fmt.Errorf("form: %w: %q", ErrUnknownField, id)
	}
	value, err := survey.Coerce(field.Name, field.QuestionType, field.Kind == pkgmodel.FieldKindGroup, raw)
	if err != nil {
		return fmt.Errorf("form: %w: %w", ErrTypeMismatch, err)
	}
	return f.SetValue(id, value)
}

// SetValue stores an already typed value after checking it fits the field.
func (f *Form) SetValue(id string, value survey.Value) error {
	field, ok := f.fields[id]
	if !ok {
		return fmt.Errorf("form: %w: %q", ErrUnknownField, id)
	}
	if !kindAllowed(field, value.Kind) {
		return fmt.Errorf("form: field %q (%s): %w: got %s", id, field.QuestionType, ErrTypeMismatch, value.Kind)
	}

	switch node := f.nodes[id].(type) {
	case *Group:
		for _, item := range value.List {
			if _, ok := node.Slot(item); !ok {
				return fmt.Errorf("form: field %q: %w: %q", id, ErrUnknownOption, item)
			}
		}
		selected := make(map[string]bool, len(value.List))
		for _, item := range value.List {
			selected[item] = true
		}
		for _, option := range node.options {
			slot, _ := node.Slot(option)
			slot.SetValue(survey.BoolValue(selected[option]))
		}
	case *Control:
		if value.Kind == survey.KindString && len(field.Options) > 0 && !contains(field.Options, value.Str) {
			return fmt.Errorf("form: field %q: %w: %q", id, ErrUnknownOption, value.Str)
		}
		node.SetValue(value)
	}

	return f.refresh(id)
}

// Toggle ticks or unticks one option of a group field.
func (f *Form) Toggle(id, option string, on bool) error {
	group, err := f.Group(id)
	if err != nil {
		return err
	}
	slot, ok := group.Slot(option)
	if !ok {
		return fmt.Errorf("form: field %q: %w: %q", id, ErrUnknownOption, option)
	}
	slot.SetValue(survey.BoolValue(on))
	return f.refresh(id)
}

// Value returns the current value of a field.
func (f *Form) Value(id string) (survey.Value, error) {
	node, ok := f.nodes[id]
	if !ok {
		return survey.Value{}, fmt.Errorf("form: %w: %q", ErrUnknownField, id)
	}
	return node.Value(), nil
}

// Visible reports whether a field currently takes part in the form. Without
// conditional logic every field is visible.
func (f *Form) Visible(id string) bool {
	return !f.hidden[id]
}

// Validate runs every visible field's validators and returns the failures
// keyed by field name. Fields that pass are absent from the map.
func (f *Form) Validate() map[string][]validation.Failure {
	out := make(map[string][]validation.Failure)
	for _, field := range f.model.Fields {
		node := f.nodes[field.Name]
		if f.hidden[field.Name] {
			node.ClearErrors()
			continue
		}
		if failures := node.Validate(); len(failures) > 0 {
			out[field.Name] = failures
		}
	}
	return out
}

// Valid reports the aggregate validity of all visible fields. It re-runs
// validation.
func (f *Form) Valid() bool {
	return len(f.Validate()) == 0
}

// Errors returns the failures stored by the last validation run.
func (f *Form) Errors() map[string][]validation.Failure {
	out := make(map[string][]validation.Failure)
	for _, field := range f.model.Fields {
		if failures := f.nodes[field.Name].Errors(); len(failures) > 0 {
			out[field.Name] = failures
		}
	}
	return out
}

// Values returns the value tree for every visible field, keyed by field name.
func (f *Form) Values() map[string]survey.Value {
	out := make(map[string]survey.Value, len(f.nodes))
	for _, field := range f.model.Fields {
		if f.hidden[field.Name] {
			continue
		}
		out[field.Name] = f.nodes[field.Name].Value()
	}
	return out
}

// Reset restores every field to its initial value and clears failures.
func (f *Form) Reset() error {
	for _, node := range f.nodes {
		node.Reset()
	}
	if f.evaluator == nil {
		return nil
	}
	return f.evaluateAll()
}

func kindAllowed(field pkgmodel.Field, kind survey.ValueKind) bool {
	if kind == survey.KindEmpty {
		return true
	}
	if field.Kind == pkgmodel.FieldKindGroup {
		return kind == survey.KindList
	}
	switch field.QuestionType {
	case survey.QuestionRating, survey.QuestionNumber:
		return kind == survey.KindNumber
	case survey.QuestionCheckbox:
		return kind == survey.KindBool
	case survey.QuestionFileUpload:
		return kind == survey.KindFile
	default:
		return kind == survey.KindString
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
