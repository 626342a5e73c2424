// Package rejit implements the front end of a just-in-time regular
// expression engine: tokenizing a pattern, analyzing its structure,
// expanding character classes, and lowering the result to a flat
// instruction stream ready for native code generation.
//
// The package does none of the code generation or matching itself; it
// stops at a read-only IR plus the metadata (capture count, max group
// nesting, fixed-length information) a downstream compiler needs.
package rejit
