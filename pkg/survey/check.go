package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrMissingPayload      = errors.New("question payload does not match type")
	ErrDuplicateQuestion   = errors.New("duplicate question id")
	ErrMissingQuestionID   = errors.New("question id is required")
	ErrUnknownStatus       = errors.New("unknown survey status")
	ErrUnknownLogicTarget  = errors.New("logic references unknown question")
	ErrUnknownLogicAction  = errors.New("unknown logic action")
)

// Check verifies the payload pointer selected by Type is present and that the
// variant attributes are usable.
func (q Question) Check() error {
	if strings.TrimSpace(q.ID) == "" {
		return ErrMissingQuestionID
	}
	if err := q.checkPayload(); err != nil {
		return err
	}
	for _, rule := range q.Logic {
		switch rule.Action {
		case LogicShow, LogicHide:
		default:
			return fmt.Errorf("survey: question %q: %w: %q", q.ID, ErrUnknownLogicAction, rule.Action)
		}
	}
	return nil
}

func (q Question) checkPayload() error {
	var ok bool
	switch q.Type {
	case QuestionMultipleChoice, QuestionSingleChoice:
		ok = q.Choice != nil
	case QuestionText:
		ok = q.TextInput != nil
	case QuestionRating:
		ok = q.Rating != nil
	case QuestionCheckbox:
		ok = q.Checkbox != nil
	case QuestionDate:
		ok = q.Date != nil
	case QuestionNumber:
		ok = q.Number != nil
	case QuestionTextarea:
		ok = q.Textarea != nil
	case QuestionDropdown:
		ok = q.Dropdown != nil
	case QuestionFileUpload:
		ok = q.File != nil
	default:
		return fmt.Errorf("survey: question %q: %w: %q", q.ID, ErrUnknownQuestionType, q.Type)
	}
	if !ok {
		return fmt.Errorf("survey: question %q: %w (%s)", q.ID, ErrMissingPayload, q.Type)
	}
	return nil
}

// Check validates survey-level invariants: known status, unique question ids,
// well-formed questions and logic rules pointing at existing questions.
func (s Survey) Check() error {
	if s.Status != "" && !s.Status.Valid() {
		return fmt.Errorf("survey %q: %w: %q", s.ID, ErrUnknownStatus, s.Status)
	}

	seen := make(map[string]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		if err := q.Check(); err != nil {
			return err
		}
		if _, exists := seen[q.ID]; exists {
			return fmt.Errorf("survey %q: %w: %q", s.ID, ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	for _, q := range s.Questions {
		for _, rule := range q.Logic {
			if _, ok := seen[rule.QuestionID]; !ok {
				return fmt.Errorf("survey %q: question %q: %w: %q", s.ID, q.ID, ErrUnknownLogicTarget, rule.QuestionID)
			}
		}
	}
	return nil
}

// Ordered returns the questions sorted by their Order field. The sort is
// stable so questions sharing an Order keep their list position.
func (s Survey) Ordered() []Question {
	out := append([]Question(nil), s.Questions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Question looks up a question by id.
func (s Survey) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
