package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	form := model.FormModel{SurveyID: "survey2024", Version: 1}
	fields := append(render.SurveyFields(form),
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("  ", "skip"),
	)
	merged := render.MergeHiddenFields(base, fields...)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"_survey":  "survey2024",
		"_version": "1",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_survey", Value: "survey2024"},
		{Name: "_version", Value: "1"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeHiddenFields_Empty(t *testing.T) {
	if got := render.MergeHiddenFields(nil, render.Hidden("", "x")); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
