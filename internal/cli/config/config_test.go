package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pbiassist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("output", DefaultOutput, "")
	fs.Bool("verbose", false, "")
	fs.Int("port", DefaultPort, "")
	fs.String("format", "dot", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Server.WatchDir)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
output: markdown
log_level: warn
server:
  port: 9000
  watch_dir: ./exports
  max_upload_mb: 20
lint:
  disabled: [nc01]
  rules:
    DQ01:
      max_length: 800
`)

	tests := []struct {
		name       string
		env        map[string]string
		flags      []string
		wantOutput string
		wantPort   int
	}{
		{name: "file over defaults", wantOutput: "markdown", wantPort: 9000},
		{
			name:       "env over file",
			env:        map[string]string{"PBIASSIST_SERVER_PORT": "9100", "PBIASSIST_OUTPUT": "json"},
			wantOutput: "json",
			wantPort:   9100,
		},
		{
			name:       "flags over env",
			env:        map[string]string{"PBIASSIST_SERVER_PORT": "9100", "PBIASSIST_OUTPUT": "json"},
			flags:      []string{"--port", "9200", "--output", "yaml"},
			wantOutput: "yaml",
			wantPort:   9200,
		},
		{
			name:       "unset flags do not override",
			env:        map[string]string{"PBIASSIST_SERVER_PORT": "9100"},
			flags:      []string{"--verbose"},
			wantOutput: "markdown",
			wantPort:   9100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			for key, val := range tt.env {
				t.Setenv(key, val)
			}
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.flags))

			cfg, err := LoadConfig("", fs)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutput, cfg.OutputFormat)
			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, "warn", cfg.LogLevel)
			assert.Equal(t, "./exports", cfg.Server.WatchDir)
			assert.Equal(t, 20, cfg.Server.MaxUploadMB)
			assert.Equal(t, "pbiassist.yaml", GetConfigFileUsed())
		})
	}
}

func TestLoadConfig_EnvNestedKeys(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("PBIASSIST_SERVER_MAX_UPLOAD_MB", "5")
	t.Setenv("PBIASSIST_LOG_LEVEL", "debug")
	t.Setenv("PBIASSIST_LINT_DISABLED", "NC01,MT02")
	t.Setenv("PBIASSIST_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"NC01", "MT02"}, cfg.Lint.Disabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestEnvValue(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantKey string
		want    any
	}{
		{name: "scalar", env: "PBIASSIST_SERVER_PORT", value: "9000", wantKey: "server.port", want: "9000"},
		{name: "top level", env: "PBIASSIST_LOG_LEVEL", value: "debug", wantKey: "log_level", want: "debug"},
		{name: "single item list", env: "PBIASSIST_LINT_DISABLED", value: "NC01", wantKey: "lint.disabled", want: []string{"NC01"}},
		{name: "list with blanks", env: "PBIASSIST_LINT_DISABLED", value: " NC01 ,, MT02,", wantKey: "lint.disabled", want: []string{"NC01", "MT02"}},
		{name: "empty list", env: "PBIASSIST_SERVER_ALLOWED_ORIGINS", value: "", wantKey: "server.allowed_origins", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, got := envValue(tt.env, tt.value)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	path := writeConfig(t, t.TempDir(), "output: text\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, path, GetConfigFileUsed())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"bad output", "output: xml\n", "invalid output format"},
		{"bad upload size", "server:\n  max_upload_mb: 0\n", "max_upload_mb"},
		{"bad severity", "lint:\n  severity:\n    NC01: fatal\n", "invalid severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			dir := t.TempDir()
			t.Chdir(dir)
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestAnalyzerConfig(t *testing.T) {
	cfg := &Config{Lint: LintConfig{
		Disabled: []string{"nc01", " MT02 "},
		Severity: map[string]string{"rp01": "error"},
		Rules:    map[string]map[string]any{"dq01": {"max_length": 800}},
	}}

	lc := cfg.AnalyzerConfig()
	assert.True(t, lc.IsDisabled("NC01"))
	assert.True(t, lc.IsDisabled("MT02"))
	assert.False(t, lc.IsDisabled("DQ01"))
	assert.Equal(t, core.SeverityError, lc.GetSeverity("RP01", core.SeverityInfo))
	assert.Equal(t, map[string]any{"max_length": 800}, lc.GetRuleOptions("DQ01"))

	var nilCfg *Config
	assert.NotNil(t, nilCfg.AnalyzerConfig())
}

func TestLogger(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("nonsense"))

	logger := NewLogger(&Config{LogLevel: "error", Verbose: true}, os.Stderr)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}
