package maintenance

import (
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(MeasureDisplayFolders)
}

// MeasureDisplayFolders flags measures outside any display folder.
var MeasureDisplayFolders = lint.RuleDef{
	ID:          "MT02",
	Name:        "measure-display-folders",
	Category:    core.CategoryMaintenance,
	Description: "Measures should be organized into display folders.",
	Severity:    core.SeverityHint,
	Check:       checkMeasureDisplayFolders,

	Rationale: "Folders group related measures so large models stay navigable in the field list.",
	Fix:       "Assign a display folder to each listed measure.",
}

func checkMeasureDisplayFolders(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, m := range data.Measures {
		if strings.TrimSpace(m.DisplayFolder) == "" {
			affected = append(affected, lint.MeasureLabel(m.TableName, m.MeasureName))
		}
	}
	return lint.ResultOf(affected)
}
