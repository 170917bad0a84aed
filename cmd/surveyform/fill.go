package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		format      string
		only        []string
		output      string
		prefill     string
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Answer the survey interactively in the terminal",
		Long: `fill asks every question in display order, re-asking until the answer
passes validation, and prints the collected answers.

--only limits the session to some question ids or section titles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSurvey()
			if err != nil {
				return err
			}
			m, err := model.NewBuilder().Build(s)
			if err != nil {
				return err
			}

			opts := render.RenderOptions{}
			if names := splitList(only); len(names) > 0 {
				opts.Subset = render.FieldSubset{Names: names, Sections: names}
			}
			if prefill != "" {
				values, err := readAnswers(prefill)
				if err != nil {
					return err
				}
				opts.Values = values
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(a.driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithFormOptions(a.formOptions()...),
				tui.WithMaxAttempts(maxAttempts),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), m, opts)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return err
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().StringSliceVar(&only, "only", nil, "question ids or section titles to ask")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write answers to a file instead of stdout")
	cmd.Flags().StringVar(&prefill, "prefill", "", "JSON file of answers used as defaults")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many invalid answers to one question (0: no limit)")
	return cmd
}

func readAnswers(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}
