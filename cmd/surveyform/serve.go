package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/internal/server"
	"github.com/goliatone/go-surveyform/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		responses string
		publicURL []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey form and the responses API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if responses != "" {
				a.cfg.Responses.Dir = responses
			}

			s, err := a.loadSurvey()
			if err != nil {
				return err
			}

			var sink store.Store = store.NewMemory()
			if dir := a.cfg.Responses.Dir; dir != "" {
				jsonl, err := store.NewJSONLines(dir)
				if err != nil {
					return err
				}
				sink = jsonl
				a.logger.Info("storing responses", zap.String("dir", dir))
			}

			html, err := a.htmlRenderer()
			if err != nil {
				return err
			}

			srv, err := server.New(cmd.Context(), s,
				server.WithLogger(a.logger),
				server.WithStore(sink),
				server.WithHTMLRenderer(html),
				server.WithFormOptions(a.formOptions()...),
				server.WithMaxBodyBytes(a.cfg.Server.MaxBodyBytes),
				server.WithServerURLs(publicURL...),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), a.cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&responses, "responses-dir", "", "directory for JSON-lines response files")
	cmd.Flags().StringSliceVar(&publicURL, "public-url", nil, "base URL advertised in the OpenAPI document")
	return cmd
}
