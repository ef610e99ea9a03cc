// Package core defines the shared language of pbiassist.
//
// This package contains:
//   - The ProcessedData aggregate produced by the extraction pipeline
//   - Record types (tables, columns, measures, expressions, relationships)
//   - Rule vocabulary shared by the rule engine and its front-ends (Category, Severity, RuleInfo)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
