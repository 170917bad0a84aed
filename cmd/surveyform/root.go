package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/internal/config"
	"github.com/goliatone/go-surveyform/internal/logging"
	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/survey/catalog"
	"github.com/goliatone/go-surveyform/pkg/visibility/expr"
)

// app carries the state shared by every subcommand once the persistent
// flags are resolved.
type app struct {
	configPath string
	surveyPath string
	logLevel   string
	verbose    bool

	// driver replaces the terminal prompts of fill when set.
	driver tui.PromptDriver

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{})
}

func newAppCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "surveyform",
		Short: "Build, serve and fill survey forms",
		Long: `surveyform turns a survey definition into a validated form.

Without --survey the built-in product feedback survey (survey2024) is used.
Settings come from --config (YAML) and SURVEYFORM_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetErrPrefix("surveyform:")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&a.surveyPath, "survey", "s", "", "survey definition (.json, .yaml or .yml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	root.AddCommand(
		newServeCmd(a),
		newFillCmd(a),
		newRenderCmd(a),
		newOpenAPICmd(a),
		newCheckCmd(a),
		newSurveyCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.surveyPath != "" {
		cfg.Survey.Path = a.surveyPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (a *app) loadSurvey() (survey.Survey, error) {
	if a.cfg.Survey.Path == "" {
		return catalog.ProductFeedback(), nil
	}
	s, err := survey.LoadFile(a.cfg.Survey.Path)
	if err != nil {
		return survey.Survey{}, err
	}
	a.logger.Debug("survey loaded",
		zap.String("path", a.cfg.Survey.Path),
		zap.String("survey_id", s.ID),
		zap.Int("questions", len(s.Questions)),
	)
	return s, nil
}

func (a *app) formOptions() []form.Option {
	if !a.cfg.Survey.ConditionalLogic {
		return nil
	}
	return []form.Option{form.WithConditionalLogic(expr.New())}
}

func (a *app) htmlRenderer(extra ...vanilla.Option) (*vanilla.Renderer, error) {
	opts := []vanilla.Option{vanilla.WithSubmitLabel(a.cfg.Render.SubmitLabel)}
	if dir := a.cfg.Render.TemplatesDir; dir != "" {
		opts = append(opts, vanilla.WithTemplatesDir(dir))
	}
	if theme := a.cfg.Render.Theme.RendererTheme(); theme != nil {
		opts = append(opts, vanilla.WithTheme(theme))
	}
	return vanilla.New(append(opts, extra...)...)
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
