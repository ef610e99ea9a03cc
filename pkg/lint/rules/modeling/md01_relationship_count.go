package modeling

import (
	"fmt"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(RelationshipCount)
}

// RelationshipCount limits the total number of relationships.
var RelationshipCount = lint.RuleDef{
	ID:          "MD01",
	Name:        "relationship-count",
	Category:    core.CategoryModeling,
	Description: "Models should keep the number of relationships manageable.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"max_relationships"},
	Check:       checkRelationshipCount,

	Rationale: `A dense relationship graph usually means the model drifted away from a star schema, which
costs both performance and predictability of filters.`,
	Fix: "Consolidate dimensions and remove relationships that reports do not use.",
}

type relationshipCountOptions struct {
	MaxRelationships int `mapstructure:"max_relationships"`
}

func checkRelationshipCount(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, relationshipCountOptions{MaxRelationships: 30})

	n := len(data.Relationships)
	if n <= o.MaxRelationships {
		return lint.ResultOf(nil)
	}
	return lint.ResultOf([]string{fmt.Sprintf("Relationships: %d (limit %d)", n, o.MaxRelationships)})
}
