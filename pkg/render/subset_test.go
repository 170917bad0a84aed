package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
)

func sectionedForm() model.FormModel {
	return model.FormModel{
		SurveyID: "sectioned",
		Fields: []model.Field{
			{Name: "q1", Section: "Usage"},
			{Name: "q2", Section: "Usage"},
			{Name: "q3", Section: "Quality"},
			{Name: "q4"},
		},
	}
}

func fieldNames(form model.FormModel) []string {
	var out []string
	for _, field := range form.Fields {
		out = append(out, field.Name)
	}
	return out
}

func TestApplySubset(t *testing.T) {
	tests := []struct {
		name   string
		subset render.FieldSubset
		want   []string
	}{
		{
			name:   "empty subset keeps everything",
			subset: render.FieldSubset{},
			want:   []string{"q1", "q2", "q3", "q4"},
		},
		{
			name:   "by section",
			subset: render.FieldSubset{Sections: []string{" usage "}},
			want:   []string{"q1", "q2"},
		},
		{
			name:   "by name",
			subset: render.FieldSubset{Names: []string{"Q4"}},
			want:   []string{"q4"},
		},
		{
			name: "section or name",
			subset: render.FieldSubset{
				Sections: []string{"Quality"},
				Names:    []string{"q1"},
			},
			want: []string{"q1", "q3"},
		},
		{
			name:   "no match",
			subset: render.FieldSubset{Sections: []string{"Billing"}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := sectionedForm()
			render.ApplySubset(&form, tt.subset)
			if diff := cmp.Diff(tt.want, fieldNames(form)); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplySubset_DoesNotTouchSource(t *testing.T) {
	source := sectionedForm()
	view := source
	render.ApplySubset(&view, render.FieldSubset{Names: []string{"q3"}})
	if len(source.Fields) != 4 {
		t.Fatalf("source fields changed: %v", fieldNames(source))
	}
}
