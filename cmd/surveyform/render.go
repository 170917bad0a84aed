package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output   string
		action   string
		preset   string
		fragment bool
		only     []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the survey as a static HTML form",
		Long: `render writes the survey as an HTML form.

--preset applies a JSON or YAML document of label, help text, section and
order overrides keyed by question id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSurvey()
			if err != nil {
				return err
			}

			var extra []vanilla.Option
			if fragment {
				extra = append(extra, vanilla.WithFragment())
			}
			html, err := a.htmlRenderer(extra...)
			if err != nil {
				return err
			}
			registry, err := render.NewRegistry(html)
			if err != nil {
				return err
			}

			opts := []orchestrator.Option{orchestrator.WithRegistry(registry)}
			if preset != "" {
				transformer, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
				if err != nil {
					return err
				}
				opts = append(opts, orchestrator.WithTransformer(transformer))
			}

			req := orchestrator.Request{
				Survey:        &s,
				RenderOptions: render.RenderOptions{Action: action},
			}
			if names := splitList(only); len(names) > 0 {
				req.RenderOptions.Subset = render.FieldSubset{Names: names, Sections: names}
			}
			page, err := orchestrator.New(opts...).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, page)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write HTML to a file instead of stdout")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	cmd.Flags().StringVar(&preset, "preset", "", "JSON or YAML file of field overrides")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render only the <form> element")
	cmd.Flags().StringSliceVar(&only, "only", nil, "question ids or section titles to render")
	return cmd
}
