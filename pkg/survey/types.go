package survey

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionType is the discriminant of the Question union.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MultipleChoice"
	QuestionSingleChoice   QuestionType = "SingleChoice"
	QuestionText           QuestionType = "Text"
	QuestionRating         QuestionType = "Rating"
	QuestionCheckbox       QuestionType = "Checkbox"
	QuestionDate           QuestionType = "Date"
	QuestionNumber         QuestionType = "Number"
	QuestionTextarea       QuestionType = "Textarea"
	QuestionDropdown       QuestionType = "Dropdown"
	QuestionFileUpload     QuestionType = "FileUpload"
)

// QuestionTypes lists every supported discriminant in declaration order.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionMultipleChoice,
		QuestionSingleChoice,
		QuestionText,
		QuestionRating,
		QuestionCheckbox,
		QuestionDate,
		QuestionNumber,
		QuestionTextarea,
		QuestionDropdown,
		QuestionFileUpload,
	}
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Status is the survey lifecycle state.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// LogicAction is the effect of a ConditionalLogic rule when it matches.
type LogicAction string

const (
	LogicShow LogicAction = "show"
	LogicHide LogicAction = "hide"
)

// Validation is the declarative constraint bag attached to a question. Nil
// pointers and empty slices mean the constraint is not enforced.
type Validation struct {
	Required          *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength         *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength         *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinValue          *float64 `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue          *float64 `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Pattern           *string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinDate           *string  `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate           *string  `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	AcceptedFileTypes []string `json:"acceptedFileTypes,omitempty" yaml:"acceptedFileTypes,omitempty"`
	MaxSizeMB         *float64 `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
}

// ConditionalLogic describes a visibility dependency on another question.
type ConditionalLogic struct {
	QuestionID string      `json:"questionId" yaml:"questionId"`
	Value      any         `json:"value" yaml:"value"`
	Action     LogicAction `json:"action" yaml:"action"`
}

// Choice is the payload for SingleChoice and MultipleChoice questions.
type Choice struct {
	Options []string
}

// TextInput is the payload for single-line Text questions.
type TextInput struct {
	Placeholder string
}

// Rating is the payload for Rating questions; answers range 1..Scale.
type Rating struct {
	Scale int
}

// Checkbox is the payload for Checkbox questions.
type Checkbox struct {
	Checked bool
}

// DateRange is the payload for Date questions. Bounds use 2006-01-02.
type DateRange struct {
	MinDate string
	MaxDate string
}

// NumberRange is the payload for Number questions.
type NumberRange struct {
	MinValue    *float64
	MaxValue    *float64
	Placeholder string
}

// Textarea is the payload for multi-line Textarea questions.
type Textarea struct {
	Placeholder string
	Rows        int
}

// Dropdown is the payload for Dropdown questions. Multiple turns the dropdown
// into a multi-valued question.
type Dropdown struct {
	Options  []string
	Multiple bool
}

// FileUpload is the payload for FileUpload questions.
type FileUpload struct {
	AcceptedFileTypes []string
	MaxSizeMB         float64
}

// Question is a tagged union: Type selects which payload pointer is set. Use
// Check to verify the payload matches the tag.
type Question struct {
	ID         string
	Type       QuestionType
	Text       string
	Required   bool
	Order      int
	Section    string
	HelpText   string
	Validation *Validation
	Logic      []ConditionalLogic

	Choice    *Choice
	TextInput *TextInput
	Rating    *Rating
	Checkbox  *Checkbox
	Date      *DateRange
	Number    *NumberRange
	Textarea  *Textarea
	Dropdown  *Dropdown
	File      *FileUpload
}

// MultiValued reports whether answers to q are a set of options rather than a
// scalar.
func (q Question) MultiValued() bool {
	switch q.Type {
	case QuestionMultipleChoice:
		return true
	case QuestionDropdown:
		return q.Dropdown != nil && q.Dropdown.Multiple
	default:
		return false
	}
}

// Options returns the option list for choice and dropdown questions.
func (q Question) Options() []string {
	switch q.Type {
	case QuestionMultipleChoice, QuestionSingleChoice:
		if q.Choice != nil {
			return q.Choice.Options
		}
	case QuestionDropdown:
		if q.Dropdown != nil {
			return q.Dropdown.Options
		}
	}
	return nil
}

// Survey is a versioned, ordered list of questions plus audit metadata.
type Survey struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	CreatedBy    string     `json:"createdBy" yaml:"createdBy"`
	CreatedDate  string     `json:"createdDate" yaml:"createdDate"`
	ModifiedBy   string     `json:"modifiedBy" yaml:"modifiedBy"`
	ModifiedDate string     `json:"modifiedDate" yaml:"modifiedDate"`
	Status       Status     `json:"status" yaml:"status"`
	Version      int        `json:"version" yaml:"version"`
	Questions    []Question `json:"questions" yaml:"questions"`
}

// questionWire is the flat encoding shared by JSON and YAML: the discriminant
// plus every variant attribute at the top level.
type questionWire struct {
	ID                string             `json:"id" yaml:"id"`
	Type              QuestionType       `json:"type" yaml:"type"`
	Text              string             `json:"text" yaml:"text"`
	Required          bool               `json:"required" yaml:"required"`
	Order             int                `json:"order" yaml:"order"`
	Section           string             `json:"section,omitempty" yaml:"section,omitempty"`
	HelpText          string             `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Validation        *Validation        `json:"validation,omitempty" yaml:"validation,omitempty"`
	Logic             []ConditionalLogic `json:"logic,omitempty" yaml:"logic,omitempty"`
	Options           []string           `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder       string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Scale             int                `json:"scale,omitempty" yaml:"scale,omitempty"`
	Checked           *bool              `json:"checked,omitempty" yaml:"checked,omitempty"`
	MinDate           string             `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate           string             `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	MinValue          *float64           `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue          *float64           `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Rows              int                `json:"rows,omitempty" yaml:"rows,omitempty"`
	Multiple          *bool              `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	AcceptedFileTypes []string           `json:"acceptedFileTypes,omitempty" yaml:"acceptedFileTypes,omitempty"`
	MaxSizeMB         float64            `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
}

func (q Question) toWire() (questionWire, error) {
	w := questionWire{
		ID:         q.ID,
		Type:       q.Type,
		Text:       q.Text,
		Required:   q.Required,
		Order:      q.Order,
		Section:    q.Section,
		HelpText:   q.HelpText,
		Validation: q.Validation,
		Logic:      q.Logic,
	}
	if err := q.checkPayload(); err != nil {
		return questionWire{}, err
	}

	switch q.Type {
	case QuestionMultipleChoice, QuestionSingleChoice:
		w.Options = q.Choice.Options
	case QuestionText:
		w.Placeholder = q.TextInput.Placeholder
	case QuestionRating:
		w.Scale = q.Rating.Scale
	case QuestionCheckbox:
		checked := q.Checkbox.Checked
		w.Checked = &checked
	case QuestionDate:
		w.MinDate = q.Date.MinDate
		w.MaxDate = q.Date.MaxDate
	case QuestionNumber:
		w.MinValue = q.Number.MinValue
		w.MaxValue = q.Number.MaxValue
		w.Placeholder = q.Number.Placeholder
	case QuestionTextarea:
		w.Placeholder = q.Textarea.Placeholder
		w.Rows = q.Textarea.Rows
	case QuestionDropdown:
		multiple := q.Dropdown.Multiple
		w.Options = q.Dropdown.Options
		w.Multiple = &multiple
	case QuestionFileUpload:
		w.AcceptedFileTypes = q.File.AcceptedFileTypes
		w.MaxSizeMB = q.File.MaxSizeMB
	default:
		return questionWire{}, fmt.Errorf("survey: question %q: %w: %q", q.ID, ErrUnknownQuestionType, q.Type)
	}
	return w, nil
}

func (w questionWire) toQuestion() (Question, error) {
	q := Question{
		ID:         w.ID,
		Type:       w.Type,
		Text:       w.Text,
		Required:   w.Required,
		Order:      w.Order,
		Section:    w.Section,
		HelpText:   w.HelpText,
		Validation: w.Validation,
		Logic:      w.Logic,
	}

	switch w.Type {
	case QuestionMultipleChoice, QuestionSingleChoice:
		q.Choice = &Choice{Options: w.Options}
	case QuestionText:
		q.TextInput = &TextInput{Placeholder: w.Placeholder}
	case QuestionRating:
		q.Rating = &Rating{Scale: w.Scale}
	case QuestionCheckbox:
		q.Checkbox = &Checkbox{}
		if w.Checked != nil {
			q.Checkbox.Checked = *w.Checked
		}
	case QuestionDate:
		q.Date = &DateRange{MinDate: w.MinDate, MaxDate: w.MaxDate}
	case QuestionNumber:
		q.Number = &NumberRange{MinValue: w.MinValue, MaxValue: w.MaxValue, Placeholder: w.Placeholder}
	case QuestionTextarea:
		q.Textarea = &Textarea{Placeholder: w.Placeholder, Rows: w.Rows}
	case QuestionDropdown:
		q.Dropdown = &Dropdown{Options: w.Options}
		if w.Multiple != nil {
			q.Dropdown.Multiple = *w.Multiple
		}
	case QuestionFileUpload:
		q.File = &FileUpload{AcceptedFileTypes: w.AcceptedFileTypes, MaxSizeMB: w.MaxSizeMB}
	default:
		return Question{}, fmt.Errorf("survey: question %q: %w: %q", w.ID, ErrUnknownQuestionType, w.Type)
	}
	return q, nil
}

// MarshalJSON encodes the question in the flat discriminated form.
func (q Question) MarshalJSON() ([]byte, error) {
	w, err := q.toWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat form, dispatching on "type".
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.toQuestion()
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

// MarshalYAML encodes the question in the flat discriminated form.
func (q Question) MarshalYAML() (any, error) {
	return q.toWire()
}

// UnmarshalYAML decodes the flat form, dispatching on "type".
func (q *Question) UnmarshalYAML(node *yaml.Node) error {
	var w questionWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	decoded, err := w.toQuestion()
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}
