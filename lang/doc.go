// Package lang drives the compilation of weft source documents.
//
// A [Compiler] takes a source file through the full front end: lexing,
// parsing, object tree construction, name resolution, and the lowering
// passes. Each file becomes a [Unit] with its own diagnostic sink, and
// imported documents are loaded on demand through a [Loader].
//
// Problems in user source never surface as Go errors; they accumulate
// in the unit's sink so one run reports as many as possible. Go errors
// are reserved for environmental failures such as unreadable files.
package lang
