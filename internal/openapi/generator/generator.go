// Package generator describes the survey HTTP API as an OpenAPI 3 document
// using kin-openapi. The answers schema is derived from the form model so
// clients see the same constraints the server enforces.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-surveyform/internal/model"
)

// Paths served by the survey API.
const (
	PathPage      = "/"
	PathSurvey    = "/api/survey"
	PathForm      = "/api/form"
	PathResponses = "/api/responses"
	PathHealth    = "/healthz"
)

const (
	schemaAnswers      = "Answers"
	schemaResponse     = "Response"
	schemaErrorMapping = "ErrorMapping"
	schemaFileRef      = "FileRef"
)

// Options tune the generated document.
type Options struct {
	// Servers lists base URLs advertised in the document.
	Servers []string
}

// Generate builds and validates the document for m.
func Generate(ctx context.Context, m model.FormModel, opts Options) (*openapi3.T, error) {
	if m.SurveyID == "" {
		return nil, errors.New("openapi generator: form model has no survey id")
	}

	title := m.Title
	if title == "" {
		title = m.SurveyID
	}

	schemas := openapi3.Schemas{
		schemaAnswers:      openapi3.NewSchemaRef("", AnswersSchema(m)),
		schemaResponse:     openapi3.NewSchemaRef("", responseSchema()),
		schemaErrorMapping: openapi3.NewSchemaRef("", errorMappingSchema()),
		schemaFileRef:      openapi3.NewSchemaRef("", fileRefSchema(model.Field{})),
	}
	// refs carry their target so the in-memory document validates
	ref := func(name string) *openapi3.SchemaRef {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, schemas[name].Value)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: m.Description,
			Version:     fmt.Sprintf("%d", max(m.Version, 1)),
		},
		Components: &openapi3.Components{Schemas: schemas},
	}
	for _, url := range opts.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}

	doc.Paths = openapi3.NewPaths(
		openapi3.WithPath(PathPage, &openapi3.PathItem{
			Get:  pageOperation("renderSurveyPage", "Render the survey as an HTML form."),
			Post: submitPageOperation(),
		}),
		openapi3.WithPath(PathSurvey, &openapi3.PathItem{
			Get: jsonOperation("getSurvey", "Fetch the survey definition.", openapi3.NewObjectSchema()),
		}),
		openapi3.WithPath(PathForm, &openapi3.PathItem{
			Get: jsonOperation("getFormModel", "Fetch the form model built from the survey.", openapi3.NewObjectSchema()),
		}),
		openapi3.WithPath(PathResponses, &openapi3.PathItem{
			Get:  listOperation(ref),
			Post: submitOperation(ref),
		}),
		openapi3.WithPath(PathHealth, &openapi3.PathItem{
			Get: jsonOperation("health", "Liveness probe.", openapi3.NewObjectSchema().
				WithProperty("status", openapi3.NewStringSchema())),
		}),
	)

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi generator: validate: %w", err)
	}
	return doc, nil
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.Content{"application/json": &openapi3.MediaType{Schema: schema}}),
	}
}

func htmlResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})),
	}
}

func jsonOperation(id, summary string, schema *openapi3.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("OK", openapi3.NewSchemaRef("", schema))),
	)
	return op
}

func pageOperation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, htmlResponse("The rendered survey form.")),
	)
	return op
}

func submitPageOperation() *openapi3.Operation {
	op := pageOperation("submitSurveyPage", "Submit the HTML form.")
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchema(openapi3.NewObjectSchema(), []string{
				"application/x-www-form-urlencoded",
				"multipart/form-data",
			})),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, htmlResponse("The receipt page.")),
		openapi3.WithStatus(http.StatusUnprocessableEntity, htmlResponse("The form again, with errors.")),
	)
	return op
}

func submitOperation(ref func(string) *openapi3.SchemaRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submitResponse"
	op.Summary = "Validate answers and record a response."
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.Content{"application/json": &openapi3.MediaType{Schema: ref(schemaAnswers)}}),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, jsonResponse("The recorded response.", ref(schemaResponse))),
		openapi3.WithStatus(http.StatusBadRequest, jsonResponse("The body could not be decoded.", ref(schemaErrorMapping))),
		openapi3.WithStatus(http.StatusUnprocessableEntity, jsonResponse("One or more answers failed validation.", ref(schemaErrorMapping))),
	)
	return op
}

// Validate loads raw as an OpenAPI document and validates it.
func Validate(ctx context.Context, raw []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi generator: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi generator: validate: %w", err)
	}
	return doc, nil
}

func listOperation(ref func(string) *openapi3.SchemaRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "listResponses"
	op.Summary = "List the recorded responses."
	list := openapi3.NewArraySchema()
	list.Items = ref(schemaResponse)
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Recorded responses, oldest first.", openapi3.NewSchemaRef("", list))),
	)
	return op
}
