// Package rules provides the best-practices rule catalogue.
//
// Rules are organized by category:
//   - maintenance: descriptions and display folders (MT01-MT02)
//   - daxquality: measure complexity and nesting (DQ01-DQ02)
//   - naming: generic names and casing (NC01-NC02)
//   - modeling: relationship count and cardinality (MD01-MD02)
//   - formatting: format string consistency (FM01)
//   - reporting: hidden tables (RP01)
//   - performance: column cardinality and query folding (PF01-PF02)
//   - errorprevention: relationship key types (EP01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/pbiassist/pkg/lint/rules"
package rules
