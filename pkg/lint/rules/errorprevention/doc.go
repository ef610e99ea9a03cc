// Package errorprevention provides rules that catch silent data errors.
//
// Rules in this package:
//   - EP01: Relationship endpoints with different data types
package errorprevention
