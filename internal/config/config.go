// Package config loads the surveyform service configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvAddr         = "SURVEYFORM_ADDR"
	EnvSurveyPath   = "SURVEYFORM_SURVEY"
	EnvResponsesDir = "SURVEYFORM_RESPONSES_DIR"
	EnvLogLevel     = "SURVEYFORM_LOG_LEVEL"
	EnvLogFormat    = "SURVEYFORM_LOG_FORMAT"
	EnvTemplatesDir = "SURVEYFORM_TEMPLATES_DIR"
)

// Config holds every setting of the service and CLI.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Survey    SurveyConfig    `yaml:"survey"`
	Render    RenderConfig    `yaml:"render"`
	Responses ResponsesConfig `yaml:"responses"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes bounds request bodies, uploads included.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// SurveyConfig selects the survey definition.
type SurveyConfig struct {
	// Path to a JSON or YAML definition. Empty serves the built-in survey.
	Path string `yaml:"path"`
	// ConditionalLogic enables show/hide rules attached to questions.
	ConditionalLogic bool `yaml:"conditional_logic"`
}

// RenderConfig configures the HTML renderer.
type RenderConfig struct {
	TemplatesDir string      `yaml:"templates_dir"`
	SubmitLabel  string      `yaml:"submit_label"`
	Theme        ThemeConfig `yaml:"theme"`
}

// ThemeConfig is the YAML face of a go-theme renderer configuration.
type ThemeConfig struct {
	Name      string            `yaml:"name"`
	Variant   string            `yaml:"variant"`
	Tokens    map[string]string `yaml:"tokens"`
	CSSVars   map[string]string `yaml:"css_vars"`
	Partials  map[string]string `yaml:"partials"`
	AssetBase string            `yaml:"asset_base"`
}

// ResponsesConfig configures where accepted responses are stored.
type ResponsesConfig struct {
	// Dir receives one JSON-lines file per survey. Empty keeps responses in
	// memory only.
	Dir string `yaml:"dir"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    12 << 20,
		},
		Render: RenderConfig{
			SubmitLabel: "Submit",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path loads defaults and overrides only; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvSurveyPath); v != "" {
		c.Survey.Path = v
	}
	if v := os.Getenv(EnvResponsesDir); v != "" {
		c.Responses.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTemplatesDir); v != "" {
		c.Render.TemplatesDir = v
	}
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of %v", c.Logging.Level, validLevels))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Render.Theme.Variant != "" && c.Render.Theme.Name == "" {
		errs = append(errs, errors.New("render.theme.variant needs render.theme.name"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RendererTheme converts the theme settings for the HTML renderer. It returns
// nil when no theme is configured.
func (t ThemeConfig) RendererTheme() *theme.RendererConfig {
	if t.Name == "" {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    t.Name,
		Variant:  t.Variant,
		Tokens:   cloneMap(t.Tokens),
		CSSVars:  cloneMap(t.CSSVars),
		Partials: cloneMap(t.Partials),
	}
	if base := strings.TrimRight(t.AssetBase, "/"); base != "" {
		cfg.AssetURL = func(key string) string {
			if key == "" {
				return ""
			}
			return base + "/" + key
		}
	}
	return cfg
}

func cloneMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
