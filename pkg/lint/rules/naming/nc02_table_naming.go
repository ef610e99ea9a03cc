package naming

import (
	"regexp"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(TableNamingConsistency)
}

// TableNamingConsistency flags tables that break the casing convention most tables follow.
var TableNamingConsistency = lint.RuleDef{
	ID:          "NC02",
	Name:        "table-naming-consistency",
	Category:    core.CategoryNaming,
	Description: "Table names should follow one casing convention (camelCase or PascalCase).",
	Severity:    core.SeverityInfo,
	ConfigKeys:  []string{"sample_size"},
	Check:       checkTableNamingConsistency,

	Rationale: `Mixed casing makes field lists look unfinished and forces report authors to remember
which convention each table uses.`,
	Fix: "Rename the listed tables to the convention the rest of the model uses.",
}

var (
	camelCase  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	pascalCase = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

type namingOptions struct {
	SampleSize int `mapstructure:"sample_size"`
}

// checkTableNamingConsistency infers the convention from the first tables:
// camelCase only wins with strictly more matches, ties go to PascalCase.
func checkTableNamingConsistency(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, namingOptions{SampleSize: 5})
	if len(data.Tables) == 0 {
		return lint.ResultOf(nil)
	}

	sample := data.Tables
	if o.SampleSize > 0 && len(sample) > o.SampleSize {
		sample = sample[:o.SampleSize]
	}
	var camel, pascal int
	for _, t := range sample {
		if camelCase.MatchString(t.Name) {
			camel++
		}
		if pascalCase.MatchString(t.Name) {
			pascal++
		}
	}

	convention := pascalCase
	if camel > pascal {
		convention = camelCase
	}

	var affected []string
	for _, t := range data.Tables {
		if !convention.MatchString(t.Name) {
			affected = append(affected, lint.TableLabel(t.Name))
		}
	}
	return lint.ResultOf(affected)
}
