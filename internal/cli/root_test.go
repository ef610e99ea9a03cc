package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/pbiassist/internal/cli/commands"
	"github.com/leapstack-labs/pbiassist/internal/cli/config"
	"github.com/leapstack-labs/pbiassist/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"version", "analyze", "inspect", "rules", "graph", "docs", "serve", "completion"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
	for _, flag := range []string{"config", "verbose", "log-level", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_OutputFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	path := testutil.WriteSampleExport(t)

	out, _, err := runRoot(t, "analyze", path, "-o", "json")
	require.NoError(t, err)

	var results []commands.FileAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 77, results[0].Score)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := testutil.WriteSampleExport(t)

	cfg := `output: json
lint:
  disabled: [MT01, mt02]
  severity:
    rp01: error
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pbiassist.yaml"), []byte(cfg), 0o600))

	out, stderr, err := runRoot(t, "analyze", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "using config file")

	var results []commands.FileAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 11, results[0].Result.Overall.TotalRules)

	failures := results[0].Result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "RP01", failures[0].Rule.ID)
	assert.Equal(t, "error", failures[0].Rule.DefaultSeverity.String())
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PBIASSIST_OUTPUT", "html")

	_, _, err := runRoot(t, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestPrintError(t *testing.T) {
	err := errors.WithHint(errors.New("invalid model export"), "export the model as a .vpax file")

	buf := new(bytes.Buffer)
	PrintError(buf, err)
	assert.Equal(t, "Error: invalid model export\nHint: export the model as a .vpax file\n", buf.String())
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "pbiassist")
}
