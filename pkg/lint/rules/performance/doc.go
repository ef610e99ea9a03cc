// Package performance provides rules about storage and refresh cost.
//
// Rules in this package:
//   - PF01: Large columns of high-cardinality-prone types
//   - PF02: Load queries with query folding disabled
package performance
