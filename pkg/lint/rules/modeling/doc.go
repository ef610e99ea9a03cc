// Package modeling provides rules about the relationship graph of a model.
//
// Rules in this package:
//   - MD01: Total relationship count
//   - MD02: Many-to-many relationships
package modeling
