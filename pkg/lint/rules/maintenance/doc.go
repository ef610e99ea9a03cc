// Package maintenance provides rules that keep a model documented and organized.
//
// Rules in this package:
//   - MT01: Measures should have a description
//   - MT02: Measures should live in a display folder
package maintenance
