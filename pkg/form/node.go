package form

import (
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// Node is one entry of the runtime form tree: a value, the validators bound
// to it and the failures from the last validation run.
type Node interface {
	Name() string
	Value() survey.Value
	// Validate runs every validator and stores the failures.
	Validate() []validation.Failure
	// Errors returns the failures stored by the last Validate call.
	Errors() []validation.Failure
	ClearErrors()
	Reset()
}

// Control holds a scalar value.
type Control struct {
	name       string
	value      survey.Value
	initial    survey.Value
	validators []validation.Validator
	failures   []validation.Failure
}

// NewControl creates a control with an initial value and validators.
func NewControl(name string, initial survey.Value, validators ...validation.Validator) *Control {
	return &Control{name: name, value: initial, initial: initial, validators: validators}
}

func (c *Control) Name() string        { return c.name }
func (c *Control) Value() survey.Value { return c.value }

// SetValue replaces the value without validating it.
func (c *Control) SetValue(v survey.Value) { c.value = v }

func (c *Control) Validate() []validation.Failure {
	c.failures = validation.Run(c.validators, c.value)
	return c.failures
}

func (c *Control) Errors() []validation.Failure { return c.failures }
func (c *Control) ClearErrors()                 { c.failures = nil }

func (c *Control) Reset() {
	c.value = c.initial
	c.failures = nil
}

// Group holds one boolean Control per option. Its value is the list of
// selected options in option order, and its validators run against that list.
type Group struct {
	name       string
	options    []string
	slots      []*Control
	validators []validation.Validator
	failures   []validation.Failure
}

// NewGroup creates a group with every slot unticked.
func NewGroup(name string, options []string, validators ...validation.Validator) *Group {
	g := &Group{name: name, options: append([]string(nil), options...), validators: validators}
	for _, option := range g.options {
		g.slots = append(g.slots, NewControl(name+"."+option, survey.BoolValue(false)))
	}
	return g
}

func (g *Group) Name() string { return g.name }

// Options lists the option labels in order.
func (g *Group) Options() []string { return append([]string(nil), g.options...) }

// Slot returns the boolean control for an option.
func (g *Group) Slot(option string) (*Control, bool) {
	for i, candidate := range g.options {
		if candidate == option {
			return g.slots[i], true
		}
	}
	return nil, false
}

// Selected reports whether option is ticked.
func (g *Group) Selected(option string) bool {
	slot, ok := g.Slot(option)
	return ok && slot.Value().Bool
}

func (g *Group) Value() survey.Value {
	selected := make([]string, 0, len(g.options))
	for i, option := range g.options {
		if g.slots[i].Value().Bool {
			selected = append(selected, option)
		}
	}
	return survey.ListValue(selected...)
}

func (g *Group) Validate() []validation.Failure {
	g.failures = validation.Run(g.validators, g.Value())
	return g.failures
}

func (g *Group) Errors() []validation.Failure { return g.failures }
func (g *Group) ClearErrors()                 { g.failures = nil }

func (g *Group) Reset() {
	for _, slot := range g.slots {
		slot.Reset()
	}
	g.failures = nil
}
