package maintenance

import (
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(MeasureDescriptions)
}

// MeasureDescriptions flags measures without a description.
var MeasureDescriptions = lint.RuleDef{
	ID:          "MT01",
	Name:        "measure-descriptions",
	Category:    core.CategoryMaintenance,
	Description: "Every measure should have a description.",
	Severity:    core.SeverityInfo,
	Check:       checkMeasureDescriptions,

	Rationale: `Descriptions show up as tooltips in the field list and are the only in-model documentation
of what a calculation means.`,
	Fix: "Add a one-sentence description stating what the measure returns.",
}

func checkMeasureDescriptions(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, m := range data.Measures {
		if strings.TrimSpace(m.Description) == "" {
			affected = append(affected, lint.MeasureLabel(m.TableName, m.MeasureName))
		}
	}
	return lint.ResultOf(affected)
}
