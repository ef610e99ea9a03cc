package errorprevention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(RelationshipTypeMismatch)
}

// RelationshipTypeMismatch flags relationships joining columns of different data types.
var RelationshipTypeMismatch = lint.RuleDef{
	ID:          "EP01",
	Name:        "relationship-type-mismatch",
	Category:    core.CategoryErrorPrevention,
	Description: "Both columns of a relationship should have the same data type.",
	Severity:    core.SeverityError,
	Check:       checkRelationshipTypeMismatch,

	Rationale: `Joining a text key to a numeric key relies on implicit conversion; values that do not
convert silently fall into the blank row.`,
	Fix: "Change one of the columns so both sides share a data type.",
}

// checkRelationshipTypeMismatch only judges relationships whose both endpoints resolve.
func checkRelationshipTypeMismatch(data *core.ProcessedData, _ map[string]any) lint.Result {
	var affected []string
	for _, r := range data.Relationships {
		from, ok := data.ColumnByName(r.FromTableName, r.FromColumnName)
		if !ok {
			continue
		}
		to, ok := data.ColumnByName(r.ToTableName, r.ToColumnName)
		if !ok {
			continue
		}
		if strings.EqualFold(from.DataType, to.DataType) {
			continue
		}
		affected = append(affected, fmt.Sprintf("Relationship: %s[%s] (%s) -> %s[%s] (%s)",
			r.FromTableName, r.FromColumnName, from.DataType,
			r.ToTableName, r.ToColumnName, to.DataType))
	}
	return lint.ResultOf(affected)
}
