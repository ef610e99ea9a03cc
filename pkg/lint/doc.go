// Package lint provides the best-practices rule engine for extracted models.
//
// # Architecture
//
// The package follows a data-driven layout:
//
//  1. Root package (pkg/lint/): RuleDef, the global registry, Config and the Analyzer
//  2. Rule catalogue (pkg/lint/rules/...): one sub-package per category
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/pbiassist/pkg/lint/rules"
//
// # Rule Categories
//
//   - MT (Maintenance): descriptions and display folders
//   - DQ (DAX Quality): expression complexity and nesting
//   - NC (Naming): generic names and casing consistency
//   - MD (Modeling): relationship count and many-to-many relationships
//   - FM (Formatting): consistent format strings
//   - RP (Reporting): hidden tables
//   - PF (Performance): high-cardinality columns and query folding
//   - EP (Error Prevention): relationship key type mismatches
//
// # Configuration
//
// Use Config to disable rules, restrict categories and tune thresholds:
//
//	config := lint.NewConfig()
//	config.Disable("RP01")
//	config.SetRuleOptions("DQ01", map[string]any{"max_length": 800})
//	result := lint.NewAnalyzer(config).Analyze(data)
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "my-custom-rule",
//		Category:    core.CategoryMaintenance,
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
