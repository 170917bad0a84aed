package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveyform/pkg/validation"
)

// errInvalidDefinitions is returned once every file has been reported.
var errInvalidDefinitions = errors.New("invalid survey definitions")

func newCheckCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate survey definition files",
		Long: `check parses each JSON or YAML definition and reports structural errors,
rules that do not compile and questions that cannot be answered.

Without arguments the file from --survey or the configuration is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				if a.cfg.Survey.Path == "" {
					return fmt.Errorf("no survey definition to check")
				}
				paths = []string{a.cfg.Survey.Path}
			}

			results := make(map[string]validation.DefinitionResult, len(paths))
			valid := true
			for _, path := range paths {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				result := validation.ValidateDefinition(raw, path)
				results[path] = result
				valid = valid && result.Valid
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				for _, path := range paths {
					result := results[path]
					if result.Valid {
						fmt.Fprintf(out, "%s: ok\n", path)
						continue
					}
					for _, issue := range result.Issues {
						if issue.Field != "" {
							fmt.Fprintf(out, "%s: %s: %s\n", path, issue.Field, issue.Message)
						} else {
							fmt.Fprintf(out, "%s: %s\n", path, issue.Message)
						}
					}
				}
			}

			if !valid {
				return errInvalidDefinitions
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
