package performance

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

func init() {
	lint.Register(HighCardinalityColumns)
}

// HighCardinalityColumns flags large columns whose type tends to have many distinct values.
var HighCardinalityColumns = lint.RuleDef{
	ID:          "PF01",
	Name:        "high-cardinality-columns",
	Category:    core.CategoryPerformance,
	Description: "Large date-time and floating-point columns compress poorly.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"min_size_bytes"},
	Check:       checkHighCardinalityColumns,

	Rationale: `The storage engine compresses by dictionary. Timestamps and unrounded decimals have
nearly unique values per row, so their dictionaries grow with the table.`,
	Fix: "Split date and time, round decimals, or remove the column if reports do not need it.",
}

var highCardinalityTypes = map[string]bool{
	"datetime": true,
	"double":   true,
	"decimal":  true,
}

type cardinalityOptions struct {
	MinSizeBytes int64 `mapstructure:"min_size_bytes"`
}

func checkHighCardinalityColumns(data *core.ProcessedData, opts map[string]any) lint.Result {
	o := lint.Options(opts, cardinalityOptions{MinSizeBytes: 1_000_000})

	var affected []string
	for _, c := range data.Columns {
		if highCardinalityTypes[strings.ToLower(c.DataType)] && c.TotalSize > o.MinSizeBytes {
			affected = append(affected, fmt.Sprintf("%s (%s, %d bytes)", lint.ColumnLabel(c.TableName, c.ColumnName), c.DataType, c.TotalSize))
		}
	}
	return lint.ResultOf(affected)
}
