package survey

import "time"

// Answer pairs a question id with the submitted value.
type Answer struct {
	QuestionID string `json:"questionId" yaml:"questionId"`
	Value      Value  `json:"value" yaml:"value"`
}

// Response is the external submission contract. RespondentID and
// ResponseTime are supplied by whoever accepts the submission.
type Response struct {
	SurveyID     string    `json:"surveyId" yaml:"surveyId"`
	RespondentID string    `json:"respondentId" yaml:"respondentId"`
	ResponseTime time.Time `json:"responseTime" yaml:"responseTime"`
	Answers      []Answer  `json:"answers" yaml:"answers"`
}

// AnswerMap indexes the answers by question id.
func (r Response) AnswerMap() map[string]Value {
	out := make(map[string]Value, len(r.Answers))
	for _, answer := range r.Answers {
		out[answer.QuestionID] = answer.Value
	}
	return out
}
