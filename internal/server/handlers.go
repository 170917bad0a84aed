package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/openapi"
	pkgrender "github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) getSurvey(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.survey)
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.model)
}

func (s *Server) getOpenAPI(format openapi.Format) http.HandlerFunc {
	contentType := "application/json"
	if format == openapi.FormatYAML {
		contentType = "application/yaml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := s.openapi.Encode(format)
		if err != nil {
			s.internalError(w, r, "openapi.encode", err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

func (s *Server) listResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.List(r.Context(), s.model.SurveyID)
	if err != nil {
		s.internalError(w, r, "store.list", err)
		return
	}
	if responses == nil {
		responses = []survey.Response{}
	}
	render.JSON(w, r, responses)
}

func (s *Server) postResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	var body map[string]any
	if err := render.DecodeJSON(r.Body, &body); err != nil || body == nil {
		if err == nil {
			err = errors.New("body must be a JSON object")
		}
		s.badRequest(w, r, "request.parse_body", err)
		return
	}

	// {"respondentId": "...", "answers": {...}} wraps the answers unless the
	// survey has a question named "answers".
	respondentID := ""
	answers := body
	if _, isField := s.model.Field("answers"); !isField {
		if nested, ok := body["answers"].(map[string]any); ok {
			answers = nested
			respondentID, _ = body["respondentId"].(string)
		}
	}

	outcome, err := s.accept.Accept(r.Context(), respondentID, answers)
	if err != nil {
		s.internalError(w, r, "submission.accept", err)
		return
	}
	if !outcome.Result.Valid {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, submission.MapErrors(s.model, outcome.Result.Failures))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, outcome.Response)
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, pkgrender.RenderOptions{})
}

func (s *Server) postPage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	answers, formErrors, err := s.answersFromForm(r)
	if err != nil {
		s.badRequest(w, r, "request.parse_form", err)
		return
	}

	// a post rendered for another survey is rejected before anything is stored
	var outcome submission.Outcome
	if len(formErrors) > 0 {
		outcome, err = s.accept.Check(answers)
		s.logger.Debug("submission rejected", zap.Strings("form_errors", formErrors))
	} else {
		outcome, err = s.accept.Accept(r.Context(), "", answers)
	}
	if err != nil {
		s.internalError(w, r, "submission.accept", err)
		return
	}
	if !outcome.Result.Valid || len(formErrors) > 0 {
		mapping := submission.MapErrors(s.model, outcome.Result.Failures)
		s.writePage(w, r, http.StatusUnprocessableEntity, pkgrender.RenderOptions{
			Values:     answers,
			Errors:     mapping.Fields,
			FormErrors: pkgrender.MergeFormErrors(mapping.Form, formErrors...),
		})
		return
	}

	page, err := s.html.RenderReceipt(r.Context(), s.model, *outcome.Response)
	if err != nil {
		s.internalError(w, r, "render.receipt", err)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, opts pkgrender.RenderOptions) {
	opts.Action = "/"
	opts.Method = http.MethodPost
	page, err := s.html.Render(r.Context(), s.model, opts)
	if err != nil {
		s.internalError(w, r, "render.form", err)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(page)
}

// answersFromForm reads a urlencoded or multipart post into raw answers.
// An unticked checkbox is absent from the post and reads as false.
// The returned messages are form-level problems such as a post rendered for
// another survey.
func (s *Server) answersFromForm(r *http.Request) (map[string]any, []string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(s.maxBody); err != nil {
			return nil, nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}

	var formErrors []string
	if id := r.PostForm.Get(pkgrender.HiddenSurveyID); id != "" && id != s.model.SurveyID {
		formErrors = append(formErrors, fmt.Sprintf("This form was rendered for survey %q.", id))
	}

	answers := make(map[string]any, len(s.model.Fields))
	for _, field := range s.model.Fields {
		if field.QuestionType == survey.QuestionFileUpload {
			if ref, ok := uploadedFile(r, field.Name); ok {
				answers[field.Name] = ref
			}
			continue
		}
		values, ok := r.PostForm[field.Name]
		if !ok {
			if field.QuestionType == survey.QuestionCheckbox && field.Kind != model.FieldKindGroup {
				answers[field.Name] = false
			}
			continue
		}
		if field.Kind == model.FieldKindGroup {
			answers[field.Name] = nonEmpty(values)
			continue
		}
		answers[field.Name] = values[0]
	}
	return answers, formErrors, nil
}

func uploadedFile(r *http.Request, name string) (survey.FileRef, bool) {
	if r.MultipartForm == nil {
		return survey.FileRef{}, false
	}
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 || headers[0].Filename == "" {
		return survey.FileRef{}, false
	}
	header := headers[0]
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return survey.FileRef{Name: header.Filename, MIMEType: mimeType, Size: header.Size}, true
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, code string, err error) {
	s.logger.Debug(code, zap.Error(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, pkgrender.ErrorMapping{Form: []string{"The request body could not be read: " + err.Error()}})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	s.logger.Error(code, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
