package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/pbiassist/internal/cli/config"
	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/vpax"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
		LogLevel:     config.DefaultLogLevel,
		Server: config.ServerConfig{
			Port:           config.DefaultPort,
			MaxUploadMB:    config.DefaultMaxUploadMB,
			AllowedOrigins: []string{"*"},
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadedModel is an export read from disk.
type loadedModel struct {
	Path        string
	Fingerprint string
	Data        *core.ProcessedData
}

// Name returns the model name, falling back to the file name.
func (m *loadedModel) Name() string {
	if name, ok := m.Data.Summary.Get(core.AttrModelName); ok && name != "" && name != core.Unknown {
		return name
	}
	return filepath.Base(m.Path)
}

// loadModel reads and extracts the export at path.
func loadModel(logger *slog.Logger, path string) (*loadedModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err := vpax.NewExtractor(logger.With("file", filepath.Base(path))).Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &loadedModel{
		Path:        path,
		Fingerprint: vpax.Fingerprint(raw),
		Data:        data,
	}, nil
}

// overrideRenderer replaces r when a command-level format flag is set.
func overrideRenderer(cmd *cobra.Command, r *output.Renderer, format string) *output.Renderer {
	if format == "" {
		return r
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}
