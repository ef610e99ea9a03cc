package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the pbiassist version, the size of the rule catalogue and the output formats.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "pbiassist v%s\n", version)
			_, _ = fmt.Fprintln(w, "Power BI model analyzer for .vpax exports")
			_, _ = fmt.Fprintf(w, "Rules:   %d in %d categories\n", lint.Count(), ruleCategories())
			_, _ = fmt.Fprintf(w, "Formats: %s\n", strings.Join(output.Modes(), ", "))
		},
	}
}

// ruleCategories counts the categories that have at least one registered rule.
func ruleCategories() int {
	seen := make(map[core.Category]bool)
	for _, r := range lint.GetAll() {
		seen[r.Category] = true
	}
	return len(seen)
}
