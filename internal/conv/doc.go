// Package conv converts between integer widths with overflow checks.
//
// Use it where a count leaves Go's int for a fixed-width field on disk,
// such as the vertex count of a code stream header.
package conv
