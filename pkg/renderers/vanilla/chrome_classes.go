package vanilla

// ChromeClass is a semantic CSS class applied to the form chrome.
type ChromeClass string

const (
	ClassForm    ChromeClass = "surveyform-form"
	ClassHeader  ChromeClass = "surveyform-header"
	ClassSection ChromeClass = "surveyform-section"
	ClassField   ChromeClass = "surveyform-field"
	ClassInvalid ChromeClass = "surveyform-invalid"
	ClassActions ChromeClass = "surveyform-actions"
	ClassErrors  ChromeClass = "surveyform-errors"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"section": string(ClassSection),
		"field":   string(ClassField),
		"invalid": string(ClassInvalid),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
	}
}
