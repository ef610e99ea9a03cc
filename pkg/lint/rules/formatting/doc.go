// Package formatting provides rules about format strings.
//
// Rules in this package:
//   - FM01: Percentage measures should share one format string
package formatting
