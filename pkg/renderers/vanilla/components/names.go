package components

// Component names, matching the inputType metadata the model builder sets on
// every field.
const (
	NameRadio         = "radio"
	NameCheckboxGroup = "checkbox-group"
	NameText          = "text"
	NameRating        = "rating"
	NameCheckbox      = "checkbox"
	NameDate          = "date"
	NameNumber        = "number"
	NameTextarea      = "textarea"
	NameSelect        = "select"
	NameFile          = "file"
)
