package template

import "io"

// TemplateRenderer renders named templates or inline template strings. Every
// render call returns the output and also writes it to each writer in out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
