// Package daxquality provides rules about DAX measure expressions.
//
// Rules in this package:
//   - DQ01: Overly long measure expressions
//   - DQ02: Deeply nested CALCULATE calls
package daxquality
