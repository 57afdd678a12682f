// Package omtsf implements the data model for the Open Multi-Tier
// Supply-Chain Framework file format: validated primitives, closed enums
// with an extension escape hatch, and the typed Node/Edge/File structures
// that every other package in this module (identity, unionfind, graph,
// diff, merge, redact, validate, codec) builds on.
//
// The package performs no I/O beyond entropy collection for file-salt
// generation. All transformations (diff, merge, redact, extract) live in
// their own subpackages and return new values rather than mutating their
// inputs.
package omtsf
