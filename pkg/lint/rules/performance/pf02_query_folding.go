package performance

import (
	"regexp"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(QueryFolding)
}

// QueryFolding flags load queries that mention EnableFolding without turning it on.
var QueryFolding = lint.RuleDef{
	ID:          "PF02",
	Name:        "query-folding",
	Category:    core.CategoryPerformance,
	Description: "Load queries should not disable query folding.",
	Severity:    core.SeverityWarning,
	Check:       checkQueryFolding,

	Rationale: `Without folding, every transformation step runs in the mashup engine instead of the
source, which makes refreshes slow and memory hungry.`,
	Fix: "Set EnableFolding = true or rewrite the steps that break folding.",
}

var (
	foldingOption  = regexp.MustCompile(`(?i)EnableFolding`)
	foldingEnabled = regexp.MustCompile(`(?i)EnableFolding\s*=\s*true`)
)

func checkQueryFolding(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, e := range data.Expressions {
		if foldingOption.MatchString(e.Expression) && !foldingEnabled.MatchString(e.Expression) {
			affected = append(affected, lint.TableLabel(e.TableName))
		}
	}
	return lint.ResultOf(affected)
}
