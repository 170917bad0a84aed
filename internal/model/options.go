package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	// Labeler derives a label from the question id when the question text is
	// blank.
	Labeler func(string) string
	// Metadata is copied onto every built FormModel.
	Metadata map[string]string
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}
