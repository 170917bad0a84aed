package render

// RenderOptions carry per-request data. Renderers read them without
// mutating the shared FormModel.
type RenderOptions struct {
	// Action is the form submission URL. Empty posts back to the current page.
	Action string
	// Method defaults to POST.
	Method string
	// Values pre-populates controls keyed by question id. Group fields take a
	// []string of selected options.
	Values map[string]any
	// Errors holds field-level messages keyed by question id, typically the
	// Fields half of an ErrorMapping.
	Errors map[string][]string
	// FormErrors are shown above the fields.
	FormErrors []string
	// Hidden inputs emitted before the visible fields.
	Hidden []HiddenField
	// Subset restricts rendering to some sections or questions.
	Subset FieldSubset
}
