package vanilla

import (
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-surveyform/pkg/model"
)

var (
	policyOnce   sync.Once
	inlinePolicy *bluemonday.Policy
	strictPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		inlinePolicy = policy
	})
	return inlinePolicy, strictPolicy
}

// SanitizeDecorator cleans author-supplied text in a form model. Titles,
// labels and placeholders lose all markup; descriptions and help text keep
// basic inline formatting and links.
func SanitizeDecorator() model.Decorator {
	return model.DecoratorFunc(func(form *model.FormModel) error {
		sanitizeModel(form)
		return nil
	})
}

// sanitizeModel rewrites form in place. Fields are copied first so a model
// sharing its slice with other holders is left untouched.
func sanitizeModel(form *model.FormModel) {
	inline, strict := policies()
	plain := func(s string) string {
		return html.UnescapeString(strings.TrimSpace(strict.Sanitize(s)))
	}

	form.Title = plain(form.Title)
	form.Description = strings.TrimSpace(inline.Sanitize(form.Description))

	form.Fields = slices.Clone(form.Fields)
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Label = plain(field.Label)
		field.Placeholder = plain(field.Placeholder)
		field.HelpText = strings.TrimSpace(inline.Sanitize(field.HelpText))
	}
}
