// Package catalog holds the survey definitions compiled into the binary.
package catalog

import "github.com/goliatone/go-surveyform/pkg/survey"

// ProductFeedbackID is the identifier of the built-in feedback survey.
const ProductFeedbackID = "survey2024"

// ProductFeedback returns a fresh copy of the built-in product feedback
// survey: eleven questions covering every question type.
func ProductFeedback() survey.Survey {
	return survey.Survey{
		ID:           ProductFeedbackID,
		Title:        "XYZ Company Product Feedback Survey",
		Description:  "Thank you for using our product! Please take a few minutes to give us your feedback to help us improve.",
		CreatedBy:    "admin_user",
		CreatedDate:  "2024-08-01",
		ModifiedBy:   "editor_user",
		ModifiedDate: "2024-08-01",
		Status:       survey.StatusDraft,
		Version:      1,
		Questions: []survey.Question{
			{
				ID:         "q1",
				Type:       survey.QuestionSingleChoice,
				Text:       "How often do you use our product?",
				Required:   true,
				Order:      1,
				HelpText:   "Select the option that best describes your usage frequency.",
				Validation: &survey.Validation{Required: boolPtr(true)},
				Choice:     &survey.Choice{Options: []string{"Daily", "Weekly", "Monthly", "Rarely"}},
			},
			{
				ID:         "q2",
				Type:       survey.QuestionMultipleChoice,
				Text:       "Which features do you use the most? (Select all that apply)",
				Required:   true,
				Order:      2,
				HelpText:   "You can select multiple features.",
				Validation: &survey.Validation{MinLength: intPtr(1)},
				Choice:     &survey.Choice{Options: []string{"Feature A", "Feature B", "Feature C", "Feature D"}},
			},
			{
				ID:         "q3",
				Type:       survey.QuestionRating,
				Text:       "How would you rate the overall quality of the product?",
				Required:   true,
				Order:      3,
				HelpText:   "1 being the lowest and 5 being the highest.",
				Validation: &survey.Validation{Required: boolPtr(true)},
				Rating:     &survey.Rating{Scale: 5},
			},
			{
				ID:         "q4",
				Type:       survey.QuestionText,
				Text:       "What do you like the most about our product?",
				Order:      4,
				HelpText:   "Optional: Describe what you like the most about the product.",
				Validation: &survey.Validation{MaxLength: intPtr(200)},
				TextInput:  &survey.TextInput{Placeholder: "Enter your favorite feature..."},
			},
			{
				ID:       "q5",
				Type:     survey.QuestionCheckbox,
				Text:     "Do you agree to receive promotional emails from us?",
				Order:    5,
				HelpText: "Check the box if you agree.",
				Checkbox: &survey.Checkbox{Checked: false},
			},
			{
				ID:       "q6",
				Type:     survey.QuestionDate,
				Text:     "When did you start using our product?",
				Required: true,
				Order:    6,
				HelpText: "Select the date you started using our product.",
				Validation: &survey.Validation{
					Required: boolPtr(true),
					MinDate:  stringPtr("2020-01-01"),
					MaxDate:  stringPtr("2024-08-01"),
				},
				Date: &survey.DateRange{MinDate: "2020-01-01", MaxDate: "2024-08-01"},
			},
			{
				ID:       "q7",
				Type:     survey.QuestionNumber,
				Text:     "How many times have you used our customer support service?",
				Required: true,
				Order:    7,
				HelpText: "Enter the number of times you contacted customer support.",
				Validation: &survey.Validation{
					Required: boolPtr(true),
					MinValue: floatPtr(0),
					MaxValue: floatPtr(100),
				},
				Number: &survey.NumberRange{MinValue: floatPtr(0), MaxValue: floatPtr(100), Placeholder: "Enter a number"},
			},
			{
				ID:         "q8",
				Type:       survey.QuestionTextarea,
				Text:       "Please provide any additional comments or suggestions.",
				Order:      8,
				HelpText:   "Optional: Provide any additional feedback you may have.",
				Validation: &survey.Validation{MaxLength: intPtr(500)},
				Textarea:   &survey.Textarea{Placeholder: "Enter your comments here...", Rows: 4},
			},
			{
				ID:         "q9",
				Type:       survey.QuestionDropdown,
				Text:       "Which country are you from?",
				Required:   true,
				Order:      9,
				HelpText:   "Select your country of residence.",
				Validation: &survey.Validation{Required: boolPtr(true)},
				Dropdown:   &survey.Dropdown{Options: []string{"USA", "Canada", "UK", "Australia", "Other"}},
			},
			{
				ID:         "q10",
				Type:       survey.QuestionDropdown,
				Text:       "Which devices do you use our product on?",
				Required:   true,
				Order:      10,
				HelpText:   "You can select multiple devices.",
				Validation: &survey.Validation{Required: boolPtr(true), MinLength: intPtr(1)},
				Dropdown:   &survey.Dropdown{Options: []string{"Desktop", "Laptop", "Tablet", "Smartphone"}, Multiple: true},
			},
			{
				ID:       "q11",
				Type:     survey.QuestionFileUpload,
				Text:     "Upload a screenshot of an issue you faced (optional)",
				Order:    11,
				HelpText: "Upload a file up to 10MB in size.",
				Validation: &survey.Validation{
					AcceptedFileTypes: []string{"image/png", "image/jpeg"},
					MaxSizeMB:         floatPtr(10),
				},
				File: &survey.FileUpload{AcceptedFileTypes: []string{"image/png", "image/jpeg"}, MaxSizeMB: 10},
			},
		},
	}
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
