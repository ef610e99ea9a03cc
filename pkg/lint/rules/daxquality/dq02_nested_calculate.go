package daxquality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(NestedCalculate)
}

// NestedCalculate counts calls of a nesting function as a proxy for nesting depth.
var NestedCalculate = lint.RuleDef{
	ID:          "DQ02",
	Name:        "nested-calculate",
	Category:    core.CategoryDAXQuality,
	Description: "Measures should not stack many CALCULATE calls.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"function", "max_occurrences"},
	Check:       checkNestedCalculate,

	Rationale: `Each CALCULATE triggers a context transition. Stacking them makes filter context hard to
reason about and slows evaluation.`,
	Fix: "Combine filter arguments into one CALCULATE or move intermediate steps into variables.",
}

type nestingOptions struct {
	Function       string `mapstructure:"function"`
	MaxOccurrences int    `mapstructure:"max_occurrences"`
}

func checkNestedCalculate(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, nestingOptions{Function: "CALCULATE", MaxOccurrences: 3})
	fn := strings.TrimSpace(o.Function)
	if fn == "" {
		return lint.ResultOf(nil)
	}
	call := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(fn) + `\s*\(`)

	var affected []string
	for _, m := range data.Measures {
		if n := len(call.FindAllStringIndex(m.MeasureExpression, -1)); n > o.MaxOccurrences {
			affected = append(affected, fmt.Sprintf("%s (%d x %s)", lint.MeasureLabel(m.TableName, m.MeasureName), n, strings.ToUpper(fn)))
		}
	}
	return lint.ResultOf(affected)
}
