// Package orchestrator wires the survey → form model → renderer pipeline
// behind a single Generate call, with hooks to patch the model on the way.
package orchestrator
