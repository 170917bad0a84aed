package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// Sink receives every accepted response. The default sink discards them.
type Sink func(ctx context.Context, resp survey.Response) error

// Outcome is what Handler.Accept produced for one submission.
type Outcome struct {
	Result   Result
	Response *survey.Response
	Form     *form.Form
}

// Handler accepts raw answers for one form model. Each call works on a fresh
// form.Form, so a Handler can serve concurrent requests.
type Handler struct {
	model       model.FormModel
	logger      *zap.Logger
	sink        Sink
	now         func() time.Time
	formOptions []form.Option
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSink forwards accepted responses to sink.
func WithSink(sink Sink) HandlerOption {
	return func(h *Handler) {
		h.sink = sink
	}
}

// WithClock overrides the response timestamp source.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithFormOptions passes options to every form.New call, e.g.
// form.WithConditionalLogic.
func WithFormOptions(opts ...form.Option) HandlerOption {
	return func(h *Handler) {
		h.formOptions = append(h.formOptions, opts...)
	}
}

// NewHandler creates a Handler for m.
func NewHandler(m model.FormModel, opts ...HandlerOption) *Handler {
	h := &Handler{
		model:  m,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Model returns the form model the handler validates against.
func (h *Handler) Model() model.FormModel { return h.model }

// NewForm builds an empty runtime form with the handler's form options.
func (h *Handler) NewForm() (*form.Form, error) {
	return form.New(h.model, h.formOptions...)
}

// Check fills a fresh form with answers and submits it without producing a
// Response. Nothing is logged or delivered to the sink.
func (h *Handler) Check(answers map[string]any) (Outcome, error) {
	f, err := h.NewForm()
	if err != nil {
		return Outcome{}, fmt.Errorf("submission: new form: %w", err)
	}
	fillFailures := Fill(f, answers)
	return Outcome{Result: Submit(f).Merge(fillFailures), Form: f}, nil
}

// Accept checks answers and, when they are valid, stamps a Response and
// delivers it to the sink. A blank respondentID gets a random UUID. Invalid
// answers are reported through Outcome.Result; the error is reserved for
// failures to build the form or to deliver the response to the sink.
func (h *Handler) Accept(ctx context.Context, respondentID string, answers map[string]any) (Outcome, error) {
	outcome, err := h.Check(answers)
	if err != nil {
		return Outcome{}, err
	}
	result := outcome.Result

	if !result.Valid {
		h.logger.Info("submission rejected",
			zap.String("survey_id", h.model.SurveyID),
			zap.Strings("fields", result.FailingFields()),
		)
		return outcome, nil
	}

	if strings.TrimSpace(respondentID) == "" {
		respondentID = uuid.NewString()
	}
	resp, err := result.ToResponse(h.model.SurveyID, respondentID, h.now())
	if err != nil {
		return Outcome{}, err
	}
	outcome.Response = &resp

	h.logger.Info("submission accepted",
		zap.String("survey_id", resp.SurveyID),
		zap.String("respondent_id", resp.RespondentID),
		zap.Int("answers", len(resp.Answers)),
	)

	if h.sink != nil {
		if err := h.sink(ctx, resp); err != nil {
			h.logger.Error("submission sink failed", zap.String("respondent_id", resp.RespondentID), zap.Error(err))
			return outcome, fmt.Errorf("submission: sink: %w", err)
		}
	}
	return outcome, nil
}
