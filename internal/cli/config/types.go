// Package config provides configuration management for the pbiassist CLI.
//
// Values are layered with koanf: defaults, then pbiassist.yaml, then
// PBIASSIST_* environment variables, then explicitly set flags.
package config

import (
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	LogLevel     string       `koanf:"log_level"`
	Lint         LintConfig   `koanf:"lint"`
	Server       ServerConfig `koanf:"server"`
}

// LintConfig configures the rule engine.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// ServerConfig holds configuration for the HTTP service.
type ServerConfig struct {
	Port           int      `koanf:"port"`
	WatchDir       string   `koanf:"watch_dir"`
	MaxUploadMB    int      `koanf:"max_upload_mb"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel    = "info"
	DefaultPort        = 8080
	DefaultMaxUploadMB = 100
	EnvPrefix          = "PBIASSIST_"
)

// ConfigFileNames are searched, in order, in the working directory.
var ConfigFileNames = []string{"pbiassist.yaml", "pbiassist.yml"}

// AnalyzerConfig converts the lint section into a rule engine configuration.
// Rule IDs are upper-cased so config files may use either case.
func (c *Config) AnalyzerConfig() *lint.Config {
	cfg := lint.NewConfig()
	if c == nil {
		return cfg
	}
	for _, id := range c.Lint.Disabled {
		cfg.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}
	for id, raw := range c.Lint.Severity {
		if sev, ok := core.ParseSeverity(raw); ok {
			cfg.SetSeverity(strings.ToUpper(id), sev)
		}
	}
	for id, opts := range c.Lint.Rules {
		cfg.SetRuleOptions(strings.ToUpper(id), opts)
	}
	return cfg
}
