// Package naming provides rules for object naming.
//
// Rules in this package:
//   - NC01: Generic or too-short table, column and measure names
//   - NC02: Table names should share one casing convention
package naming
