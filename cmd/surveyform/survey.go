package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSurveyCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Print the survey definition in use",
		Long: `survey prints the loaded definition, which is handy for starting a new
survey from the built-in one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSurvey()
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "yaml", "yml":
				data, err = yaml.Marshal(s)
			case "json":
				data, err = json.MarshalIndent(s, "", "  ")
			default:
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}
			if err != nil {
				return err
			}
			if format == "json" {
				data = append(data, '\n')
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the definition to a file instead of stdout")
	return cmd
}
