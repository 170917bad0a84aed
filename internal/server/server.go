// Package server exposes one survey over HTTP: the HTML form, its JSON
// definition, the responses API and the OpenAPI description.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/internal/config"
	"github.com/goliatone/go-surveyform/internal/store"
	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/openapi"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/submission"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

const defaultMaxBodyBytes = 12 << 20

// Server serves a single survey. It is safe for concurrent use.
type Server struct {
	survey  survey.Survey
	model   model.FormModel
	accept  *submission.Handler
	html    *vanilla.Renderer
	store   store.Store
	openapi openapi.Document
	logger  *zap.Logger
	maxBody int64
	router  chi.Router
}

// Option configures New.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	store       store.Store
	html        *vanilla.Renderer
	formOptions []form.Option
	maxBody     int64
	servers     []string
	now         func() time.Time
}

// WithLogger sets the logger; the default discards logs.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStore selects where accepted responses go. The default is an
// in-memory store.
func WithStore(s store.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithHTMLRenderer replaces the default HTML renderer.
func WithHTMLRenderer(r *vanilla.Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.html = r
		}
	}
}

// WithFormOptions forwards options to every runtime form, e.g.
// form.WithConditionalLogic.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *options) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

// WithServerURLs advertises base URLs in the OpenAPI document.
func WithServerURLs(urls ...string) Option {
	return func(o *options) {
		o.servers = append(o.servers, urls...)
	}
}

// WithClock overrides the response timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds the form model for s and wires the routes.
func New(ctx context.Context, s survey.Survey, opts ...Option) (*Server, error) {
	o := options{
		logger:  zap.NewNop(),
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.store == nil {
		o.store = store.NewMemory()
	}
	if o.html == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		o.html = html
	}

	m, err := model.NewBuilder().Build(s)
	if err != nil {
		return nil, fmt.Errorf("server: build form model: %w", err)
	}
	doc, err := openapi.Generate(ctx, m, openapi.WithServers(o.servers...))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	handlerOpts := []submission.HandlerOption{
		submission.WithLogger(o.logger),
		submission.WithSink(o.store.Append),
		submission.WithFormOptions(o.formOptions...),
	}
	if o.now != nil {
		handlerOpts = append(handlerOpts, submission.WithClock(o.now))
	}

	srv := &Server{
		survey:  s,
		model:   m,
		accept:  submission.NewHandler(m, handlerOpts...),
		html:    o.html,
		store:   o.store,
		openapi: doc,
		logger:  o.logger,
		maxBody: o.maxBody,
	}
	srv.router = srv.routes()
	return srv, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.logger), middleware.Recoverer)

	r.Get("/", s.getPage)
	r.Post("/", s.postPage)
	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.json", s.getOpenAPI(openapi.FormatJSON))
	r.Get("/openapi.yaml", s.getOpenAPI(openapi.FormatYAML))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/survey", s.getSurvey)
		r.Get("/form", s.getForm)
		r.Get("/responses", s.listResponses)
		r.Post("/responses", s.postResponse)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Model returns the form model being served.
func (s *Server) Model() model.FormModel { return s.model }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("survey_id", s.model.SurveyID))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
