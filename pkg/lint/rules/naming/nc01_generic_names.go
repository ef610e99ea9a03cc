package naming

import (
	"regexp"
	"unicode/utf8"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(GenericNames)
}

// GenericNames flags objects that kept a designer default name or are too short to mean anything.
var GenericNames = lint.RuleDef{
	ID:          "NC01",
	Name:        "generic-names",
	Category:    core.CategoryNaming,
	Description: "Tables, columns and measures should not use generic or very short names.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"min_length"},
	Check:       checkGenericNames,

	Rationale: `Names like "Table1", "New Measure" or "x" leak into every report field list and every
DAX formula. They say nothing about the data and make the model hard to navigate.`,
	Fix: "Rename the object after the business concept it holds.",
}

var genericName = regexp.MustCompile(`(?i)^(new\s+)?(table|column|measure)\s*\d*$`)

type genericNamesOptions struct {
	MinLength int `mapstructure:"min_length"`
}

func checkGenericNames(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, genericNamesOptions{MinLength: 3})

	bad := func(name string) bool {
		return genericName.MatchString(name) || utf8.RuneCountInString(name) < o.MinLength
	}

	var affected []string
	for _, t := range data.Tables {
		if bad(t.Name) {
			affected = append(affected, lint.TableLabel(t.Name))
		}
	}
	for _, c := range data.Columns {
		if bad(c.ColumnName) {
			affected = append(affected, lint.ColumnLabel(c.TableName, c.ColumnName))
		}
	}
	for _, m := range data.Measures {
		if bad(m.MeasureName) {
			affected = append(affected, lint.MeasureLabel(m.TableName, m.MeasureName))
		}
	}
	return lint.ResultOf(affected)
}
