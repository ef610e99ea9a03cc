package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"category", "verbose", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func runRules(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRulesCommand_ListAll(t *testing.T) {
	out, err := runRules(t)
	require.NoError(t, err)

	// piped output renders markdown
	assert.Contains(t, out, "# Best-Practice Rules")
	for _, c := range core.AllCategories() {
		assert.Contains(t, out, "## "+c.DisplayName())
	}
	assert.Contains(t, out, "- **NC01**")
}

func TestRulesCommand_Text(t *testing.T) {
	out, err := runRules(t, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Best-Practice Rules (13)")
	assert.Contains(t, out, "  MT01  measure-descriptions - ")
	assert.Contains(t, out, "Use 'pbiassist rules <rule-id>'")
	assert.NotContains(t, out, "\x1b[")
}

func TestRulesCommand_FilterByCategory(t *testing.T) {
	t.Run("naming only", func(t *testing.T) {
		out, err := runRules(t, "--category", "naming", "--format", "markdown")
		require.NoError(t, err)

		assert.Contains(t, out, "## Naming Conventions")
		assert.NotContains(t, out, "## Maintenance")
	})

	t.Run("case insensitive", func(t *testing.T) {
		out, err := runRules(t, "-c", "DAX-Quality", "--format", "json")
		require.NoError(t, err)

		var result RulesOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, map[core.Category]int{core.CategoryDAXQuality: 2}, result.ByCategory)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := runRules(t, "--category", "style")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := runRules(t, "--format", "json")
	require.NoError(t, err)

	var result RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 13, result.Total)
	assert.Len(t, result.Rules, 13)

	sum := 0
	for _, n := range result.ByCategory {
		sum += n
	}
	assert.Equal(t, result.Total, sum)
}

func TestRulesCommand_YAML(t *testing.T) {
	out, err := runRules(t, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 13")
	assert.Contains(t, out, "id: MT01")
}

func TestRulesCommand_Verbose(t *testing.T) {
	out, err := runRules(t, "--verbose", "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "  > ")
	assert.Contains(t, out, "generic or very short names")
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		prefix  string
		wantOut []string
	}{
		{
			name:    "markdown",
			args:    []string{"DQ02", "--format", "markdown"},
			prefix:  "# DQ02 - nested-calculate",
			wantOut: []string{"**Category:** DAX Quality", "## Why This Matters", "## How to Fix", "`lint.rules.DQ02`: `function`, `max_occurrences`"},
		},
		{
			name:    "text",
			args:    []string{"nc01", "--format", "text"},
			prefix:  "NC01 - ",
			wantOut: []string{"Category", "Naming Conventions", "How to Fix", "Options (lint.rules.NC01): min_length"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRules(t, tt.args...)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(out, tt.prefix), "got: %s", out)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRulesCommand_SingleRuleJSON(t *testing.T) {
	out, err := runRules(t, "md02", "--format", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "MD02", result["id"])
	assert.Equal(t, "modeling", result["category"])
}

func TestRulesCommand_NotFound(t *testing.T) {
	_, err := runRules(t, "INVALID99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTruncateOneLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"multiline", "hello\nworld", 20, "hello world"},
		{"multiline truncated", "hello\nworld", 8, "hello..."},
		{"runes", "größenänderung", 8, "größe..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, truncateOneLine(tc.input, tc.maxLen))
		})
	}
}
