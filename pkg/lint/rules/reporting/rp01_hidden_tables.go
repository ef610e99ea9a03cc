package reporting

import (
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(HiddenTables)
}

// HiddenTables lists hidden tables so their purpose can be reviewed.
var HiddenTables = lint.RuleDef{
	ID:          "RP01",
	Name:        "hidden-tables",
	Category:    core.CategoryReporting,
	Description: "Hidden tables should be reviewed; they may be unused or hide needed fields.",
	Severity:    core.SeverityInfo,
	Check:       checkHiddenTables,

	Rationale: "Hidden tables still cost refresh time and memory, and report authors cannot discover them.",
	Fix:       "Remove tables nobody uses, or unhide tables that carry reportable fields.",
}

func checkHiddenTables(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, t := range data.Tables {
		if t.IsHidden {
			affected = append(affected, lint.TableLabel(t.Name))
		}
	}
	return lint.ResultOf(affected)
}
