package lint

import (
	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "NC01"
	Name        string        // Human-readable name, e.g., "generic-names"
	Category    core.Category // One of core.AllCategories()
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Check       CheckFunc     // The check function
	ConfigKeys  []string      // Configuration keys this rule accepts (for rule-specific options)

	// Documentation fields for richer rule documentation
	Rationale string // Why this rule exists, what problems it prevents
	Fix       string // How to fix violations (when not obvious)
}

// CheckFunc evaluates a rule against the whole model.
// The opts parameter contains rule-specific options from configuration.
// A CheckFunc must not panic on missing data; absent collections simply pass.
type CheckFunc func(data *core.ProcessedData, opts map[string]any) Result

// Info returns the documentation view of the rule.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Category:        r.Category,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		Fix:             r.Fix,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of one rule.
type Result struct {
	Passed          bool     `json:"passed" yaml:"passed"`
	AffectedObjects []string `json:"affectedObjects" yaml:"affected_objects"`
}

// ResultOf builds a Result that passes when nothing is affected.
func ResultOf(affected []string) Result {
	if affected == nil {
		affected = []string{}
	}
	return Result{Passed: len(affected) == 0, AffectedObjects: affected}
}

// Affected-object labels.

// TableLabel names a table in an affected-object list.
func TableLabel(table string) string { return "Table: " + table }

// ColumnLabel names a column in an affected-object list.
func ColumnLabel(table, column string) string { return "Column: " + table + "[" + column + "]" }

// MeasureLabel names a measure in an affected-object list.
func MeasureLabel(table, measure string) string { return "Measure: " + table + "[" + measure + "]" }
