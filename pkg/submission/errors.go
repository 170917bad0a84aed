package submission

import (
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// MapErrors converts failures into the messages renderers show next to each
// question. Failures for ids the form does not know become form-level
// messages.
func MapErrors(form model.FormModel, failures map[string][]validation.Failure) render.ErrorMapping {
	payload := make(map[string][]string, len(failures))
	for id, list := range failures {
		for _, failure := range list {
			payload[id] = append(payload[id], failure.Message)
		}
	}
	return render.MapErrorPayload(form, payload)
}
