package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/openapi"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		format  string
		output  string
		servers []string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI description of the survey's HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := openapi.Format(format)
			if f != openapi.FormatJSON && f != openapi.FormatYAML {
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}

			s, err := a.loadSurvey()
			if err != nil {
				return err
			}
			m, err := model.NewBuilder().Build(s)
			if err != nil {
				return err
			}
			doc, err := openapi.Generate(cmd.Context(), m, openapi.WithServers(servers...))
			if err != nil {
				return err
			}
			data, err := doc.Encode(f)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(openapi.FormatJSON), "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().StringSliceVar(&servers, "server", nil, "server URL to list in the document")
	return cmd
}
