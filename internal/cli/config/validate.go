package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

var validOutputs = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	out := strings.ToLower(c.OutputFormat)
	valid := false
	for _, v := range validOutputs {
		if out == v {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	c.OutputFormat = out

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	for id, sev := range c.Lint.Severity {
		if _, ok := core.ParseSeverity(sev); !ok {
			return fmt.Errorf("invalid severity %q for rule %s", sev, id)
		}
	}
	return nil
}
