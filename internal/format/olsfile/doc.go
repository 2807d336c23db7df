// Package olsfile reads and writes the line-oriented capture file
// format. A file is a header block of ";Key: value" lines, a data
// block of one line per transition (or per raw sample in the legacy
// layout), and a trailer carrying cursor state. The reader detects
// the legacy raw layout, run-length-compresses it, and migrates
// trigger and cursor values that older writers stored as absolute
// sample times rather than transition indices.
package olsfile
