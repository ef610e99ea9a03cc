package daxquality

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(ComplexMeasures)
}

// ComplexMeasures uses expression length as a proxy for complexity.
var ComplexMeasures = lint.RuleDef{
	ID:          "DQ01",
	Name:        "complex-measures",
	Category:    core.CategoryDAXQuality,
	Description: "Measure expressions should stay short enough to read and test.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"max_length"},
	Check:       checkComplexMeasures,

	Rationale: `Long expressions usually inline logic that belongs in helper measures or variables and
are hard to review.`,
	Fix: "Split the calculation into smaller measures or use VAR blocks.",
}

type complexityOptions struct {
	MaxLength int `mapstructure:"max_length"`
}

func checkComplexMeasures(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, complexityOptions{MaxLength: 500})

	var affected []string
	for _, m := range data.Measures {
		if n := utf8.RuneCountInString(m.MeasureExpression); n > o.MaxLength {
			affected = append(affected, fmt.Sprintf("%s (%d characters)", lint.MeasureLabel(m.TableName, m.MeasureName), n))
		}
	}
	return lint.ResultOf(affected)
}
