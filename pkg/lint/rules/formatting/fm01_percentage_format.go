package formatting

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(PercentageFormat)
}

// PercentageFormat flags percentage measures when they disagree on the format string.
var PercentageFormat = lint.RuleDef{
	ID:          "FM01",
	Name:        "percentage-format",
	Category:    core.CategoryFormatting,
	Description: "Percentage measures should use one consistent format string.",
	Severity:    core.SeverityInfo,
	Check:       checkPercentageFormat,

	Rationale: "Ratios shown with different precision side by side look like data errors.",
	Fix:       `Pick one format (for example "0.0%") and apply it to every percentage measure.`,
}

func isPercentageMeasure(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "percent") || strings.Contains(n, "pct") || strings.Contains(n, "%")
}

// checkPercentageFormat flags the whole group once two distinct formats are in use.
// A missing format string counts as a format of its own.
func checkPercentageFormat(data *core.ProcessedData, _ map[string]any) lint.Result {
	var group []core.MeasureRecord
	formats := make(map[string]bool)
	for _, m := range data.Measures {
		if isPercentageMeasure(m.MeasureName) {
			group = append(group, m)
			formats[m.FormatString] = true
		}
	}
	if len(formats) <= 1 {
		return lint.ResultOf(nil)
	}

	affected := make([]string, 0, len(group))
	for _, m := range group {
		affected = append(affected, fmt.Sprintf("%s (format %q)", lint.MeasureLabel(m.TableName, m.MeasureName), m.FormatString))
	}
	return lint.ResultOf(affected)
}
