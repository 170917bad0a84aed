package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

func TestPresetTransformer_YAML(t *testing.T) {
	preset, err := orchestrator.NewPresetTransformer([]byte(`
title: Customer pulse
metadata:
  campaign: spring
fields:
  q9:
    label: Where are you based?
    section: About you
    order: 0
    metadata:
      width: half
  q8:
    placeholder: Anything else?
`))
	if err != nil {
		t.Fatalf("new preset: %v", err)
	}

	form := testsupport.FeedbackModel(t)
	if err := preset.Transform(context.Background(), &form); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if form.Title != "Customer pulse" || form.Metadata["campaign"] != "spring" {
		t.Fatalf("form-level patch missing: %q %#v", form.Title, form.Metadata)
	}
	first := form.Fields[0]
	if first.Name != "q9" || first.Label != "Where are you based?" || first.Section != "About you" {
		t.Fatalf("expected patched q9 first, got %#v", first)
	}
	if first.Metadata["width"] != "half" {
		t.Fatalf("field metadata missing: %#v", first.Metadata)
	}
	q8, _ := form.Field("q8")
	if q8.Placeholder != "Anything else?" {
		t.Fatalf("placeholder not applied: %q", q8.Placeholder)
	}

	var order []string
	for _, field := range form.Fields {
		order = append(order, field.Name)
	}
	want := []string{"q9", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q10", "q11"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetTransformer_JSONFromFS(t *testing.T) {
	fsys := fstest.MapFS{"preset.json": {Data: []byte(`{"fields":{"q1":{"helpText":"Pick one."}}}`)}}
	preset, err := orchestrator.NewPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	form := testsupport.FeedbackModel(t)
	if err := preset.Transform(context.Background(), &form); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if q1, _ := form.Field("q1"); q1.HelpText != "Pick one." {
		t.Fatalf("help text not applied: %q", q1.HelpText)
	}
}

func TestPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.NewPresetTransformerFromFS(fstest.MapFS{}, "missing.yaml"); err == nil {
		t.Fatalf("expected read error")
	}

	preset, err := orchestrator.NewPresetTransformer([]byte("fields:\n  q99:\n    label: Nope\n"))
	if err != nil {
		t.Fatalf("new preset: %v", err)
	}
	form := testsupport.FeedbackModel(t)
	if err := preset.Transform(context.Background(), &form); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
