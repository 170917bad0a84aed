package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// skipOption lets optional choice questions be left unanswered.
const skipOption = "(skip)"

const defaultRatingScale = 5

// Renderer implements render.Renderer for terminal sessions. Render asks every
// visible question in display order, re-asking until the answer passes the
// field's validators, and returns the accepted answers serialized in the
// configured OutputFormat.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	formOptions       []form.Option
	resolveFile       FileResolver
	maxAttempts       int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		resolveFile:  statFile,
		theme: Theme{
			InfoPrefix:  "i",
			ErrorPrefix: "!",
		},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs an interactive session for form. opts.Values pre-fills answers
// and opts.Errors are shown before the matching question is asked. A
// non-empty opts.Subset limits the session to the selected fields.
func (r *Renderer) Render(ctx context.Context, m model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := form.New(m, r.formOptions...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	messages := make(map[string][]string, len(opts.Errors))
	for name, errs := range opts.Errors {
		messages[name] = append(messages[name], errs...)
	}
	prefill := make(map[string]any, len(opts.Values))
	for name, value := range opts.Values {
		if _, ok := f.Node(name); ok {
			prefill[name] = value
		}
	}
	for name, failures := range submission.Fill(f, prefill) {
		for _, failure := range failures {
			messages[name] = append(messages[name], failure.Message)
		}
	}

	if title := strings.TrimSpace(m.Title); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, translateSurveyErr(err)
		}
	}

	asked := askedFields(m, opts.Subset)
	for _, field := range f.Fields() {
		if !asked[field.Name] || !f.Visible(field.Name) {
			continue
		}
		for _, msg := range messages[field.Name] {
			if err := r.driver.Info(ctx, r.errorLine(msg)); err != nil {
				return nil, err
			}
		}
		if err := r.ask(ctx, f, field); err != nil {
			return nil, err
		}
	}

	result := submission.Submit(f)
	if failing := failingAsked(result, asked); len(failing.Fields) > 0 {
		return nil, fmt.Errorf("tui: %w", failing)
	}

	values := make(map[string]any)
	for name, value := range f.Values() {
		if asked[name] {
			values[name] = value.Raw()
		}
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(f.Fields(), values)
}

// ask prompts for one field until its validators pass.
func (r *Renderer) ask(ctx context.Context, f *form.Form, field model.Field) error {
	node, _ := f.Node(field.Name)
	for attempt := 1; ; attempt++ {
		value, problem, err := r.prompt(ctx, field, node.Value())
		if err != nil {
			return err
		}

		var problems []string
		if problem != "" {
			problems = append(problems, problem)
		} else if err := f.SetValue(field.Name, value); err != nil {
			problems = append(problems, err.Error())
		} else {
			for _, failure := range node.Validate() {
				problems = append(problems, failure.Message)
			}
		}
		if len(problems) == 0 {
			return nil
		}

		for _, msg := range problems {
			if err := r.driver.Info(ctx, r.errorLine(msg)); err != nil {
				return err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

// prompt asks once. A non-empty problem reports input that could not be
// turned into a value; err is reserved for driver failures.
func (r *Renderer) prompt(ctx context.Context, field model.Field, current survey.Value) (survey.Value, string, error) {
	message := displayLabel(field)
	help := displayHelp(field)

	if field.Kind == model.FieldKindGroup {
		idx, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  field.Options,
			Defaults: indicesOf(field.Options, current.List),
			Help:     help,
		})
		if err != nil {
			return survey.Value{}, "", err
		}
		return survey.ListValue(defaultsFromIndices(field.Options, idx)...), "", nil
	}

	switch field.QuestionType {
	case survey.QuestionCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current.Bool,
			Help:    help,
		})
		if err != nil {
			return survey.Value{}, "", err
		}
		return survey.BoolValue(ok), "", nil

	case survey.QuestionSingleChoice, survey.QuestionDropdown:
		choice, err := r.choose(ctx, field, message, help, field.Options, current.Str)
		if err != nil || choice == "" {
			return survey.EmptyValue(), "", err
		}
		return survey.StringValue(choice), "", nil

	case survey.QuestionRating:
		choice, err := r.choose(ctx, field, message, help, ratingOptions(field), current.String())
		if err != nil || choice == "" {
			return survey.EmptyValue(), "", err
		}
		n, _ := strconv.Atoi(choice)
		return survey.NumberValue(float64(n)), "", nil

	case survey.QuestionTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current.Str,
			Help:    help,
		})
		if err != nil {
			return survey.Value{}, "", err
		}
		return r.coerce(field, text)

	case survey.QuestionFileUpload:
		path, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Help:    help,
		})
		if err != nil {
			return survey.Value{}, "", err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return survey.EmptyValue(), "", nil
		}
		ref, err := r.resolveFile(path)
		if err != nil {
			return survey.Value{}, fmt.Sprintf("Cannot read %s: %v", path, err), nil
		}
		return survey.FileValue(ref), "", nil

	default:
		text, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current.String(),
			Help:    help,
		})
		if err != nil {
			return survey.Value{}, "", err
		}
		return r.coerce(field, text)
	}
}

// choose runs a select prompt and returns the picked option, or "" when the
// skip entry of an optional question was chosen.
func (r *Renderer) choose(ctx context.Context, field model.Field, message, help string, options []string, current string) (string, error) {
	if !field.Required {
		options = append([]string{skipOption}, options...)
	}
	def := indexOf(options, current)
	if def < 0 {
		def = 0
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: def,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) || options[idx] == skipOption {
		return "", nil
	}
	return options[idx], nil
}

func (r *Renderer) coerce(field model.Field, text string) (survey.Value, string, error) {
	value, err := survey.Coerce(field.Name, field.QuestionType, false, text)
	if err != nil {
		if errors.Is(err, survey.ErrValueMismatch) {
			return survey.Value{}, fmt.Sprintf("%q is not a valid answer here.", text), nil
		}
		return survey.Value{}, "", err
	}
	return value, "", nil
}

func (r *Renderer) errorLine(msg string) string {
	if r.theme.ErrorPrefix == "" {
		return msg
	}
	return r.theme.ErrorPrefix + " " + msg
}

func (r *Renderer) serialize(fields []model.Field, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(fields, values)), nil
	default:
		return json.Marshal(values)
	}
}

func askedFields(m model.FormModel, subset render.FieldSubset) map[string]bool {
	scoped := m
	scoped.Fields = append([]model.Field(nil), m.Fields...)
	render.ApplySubset(&scoped, subset)

	out := make(map[string]bool, len(scoped.Fields))
	for _, field := range scoped.Fields {
		out[field.Name] = true
	}
	return out
}

func failingAsked(result submission.Result, asked map[string]bool) *submission.InvalidError {
	out := &submission.InvalidError{}
	for _, name := range result.FailingFields() {
		if !asked[name] {
			continue
		}
		if out.Failures == nil {
			out.Failures = make(map[string][]validation.Failure)
		}
		out.Fields = append(out.Fields, name)
		out.Failures[name] = result.Failures[name]
	}
	return out
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}
	return label
}

func displayHelp(field model.Field) string {
	var parts []string
	if field.HelpText != "" {
		parts = append(parts, field.HelpText)
	}
	switch field.QuestionType {
	case survey.QuestionDate:
		parts = append(parts, "Format: YYYY-MM-DD.")
	case survey.QuestionNumber:
		lo, hi := field.Metadata["min"], field.Metadata["max"]
		switch {
		case lo != "" && hi != "":
			parts = append(parts, fmt.Sprintf("Between %s and %s.", lo, hi))
		case lo != "":
			parts = append(parts, fmt.Sprintf("At least %s.", lo))
		case hi != "":
			parts = append(parts, fmt.Sprintf("At most %s.", hi))
		}
	case survey.QuestionFileUpload:
		parts = append(parts, "Enter a path to a local file.")
		if field.Accept != "" {
			parts = append(parts, "Accepted: "+field.Accept+".")
		}
	}
	return strings.Join(parts, " ")
}

func ratingOptions(field model.Field) []string {
	scale := field.Scale
	if scale <= 0 {
		scale = defaultRatingScale
	}
	out := make([]string, scale)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

func statFile(path string) (survey.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return survey.FileRef{}, err
	}
	if info.IsDir() {
		return survey.FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return survey.FileRef{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}

func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(key, item)
			}
		case survey.FileRef:
			out.Set(key, v.Name)
		case float64:
			out.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		case nil:
			out.Set(key, "")
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

// prettyPrint writes one "Label: answer" line per value, in display order,
// followed by any keys a transformer added.
func prettyPrint(fields []model.Field, values map[string]any) string {
	var b strings.Builder
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		seen[field.Name] = true
		label := field.Label
		if label == "" {
			label = field.Name
		}
		fmt.Fprintf(&b, "%s: %s\n", label, prettyValue(value))
	}

	var extra []string
	for key := range values {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, prettyValue(values[key]))
	}
	return b.String()
}

func prettyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		if v == "" {
			return "-"
		}
		return v
	case []string:
		if len(v) == 0 {
			return "-"
		}
		return strings.Join(v, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case survey.FileRef:
		return survey.FileValue(v).String()
	default:
		return fmt.Sprint(v)
	}
}
