// Package scalarunit parses and normalizes TOSCA scalar-unit values:
// numbers with a physical unit drawn from one of four families (size,
// time, frequency, bitrate).
//
// A scalar-unit literal is a decimal number followed by whitespace and a
// unit symbol, e.g. "10 MB", "500 ms", "2.5 GHz", "10 Mbps". [Parse]
// recognizes the family from the unit and returns a [Value] that can be
// converted to its family's canonical base unit with [Value.Base] for
// comparison -- this is what lets a "greater_than: 1 GB" constraint compare
// correctly against a property assigned "1024 MB".
//
// # Binary vs. decimal size units
//
// This package treats "KB", "MB", "GB", "TB" as power-of-2 (binary)
// multiples of the byte, matching the interpretation fixed by the TOSCA
// Simple Profile specification (and by the original Python parser this
// module was translated from): 1 MB == 1 MiB == 1048576 B. The explicit
// "*iB" spellings (KiB, MiB, GiB, TiB) are accepted as synonyms of their
// non-"i" counterparts. This is a deliberate, spec-fixed choice -- see
// DESIGN.md -- not a guess.
package scalarunit
