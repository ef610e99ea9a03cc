package modeling

import (
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(ManyToMany)
}

// ManyToMany flags relationships with many on both sides.
var ManyToMany = lint.RuleDef{
	ID:          "MD02",
	Name:        "many-to-many",
	Category:    core.CategoryModeling,
	Description: "Avoid many-to-many relationships.",
	Severity:    core.SeverityWarning,
	Check:       checkManyToMany,

	Rationale: `Many-to-many relationships produce ambiguous filter propagation and totals that do not
add up.`,
	Fix: "Introduce a bridge or dimension table with unique keys.",
}

func checkManyToMany(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, r := range data.Relationships {
		if strings.HasPrefix(r.Cardinality, "M-M") {
			affected = append(affected, "Relationship: "+r.FromFullColumnName+" -> "+r.ToFullColumnName+" ("+r.Cardinality+")")
		}
	}
	return lint.ResultOf(affected)
}
