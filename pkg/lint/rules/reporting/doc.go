// Package reporting provides report-usability rules.
//
// Rules in this package:
//   - RP01: Hidden tables
package reporting
