// Package io reads precedence relations from files and writes orderings.
//
// # Relation Formats
//
// Three input formats are supported. The text format holds one relation per
// line, the identifier that comes first followed by the one that comes
// after, separated by whitespace. Blank lines and everything after a '#'
// are ignored:
//
//	# sample
//	9 2
//	3 7
//
// The JSON format wraps the same pairs in an object. Identifiers may be
// strings or numbers:
//
//	{
//	  "relations": [
//	    {"before": 9, "after": 2},
//	    {"before": "lex", "after": "parse"}
//	  ]
//	}
//
// The TOML format uses an array of tables:
//
//	[[relation]]
//	before = 9
//	after = 2
//
// # Import
//
// Use [ImportRelations] to read a file, picking the format from its
// extension (see [FormatFromPath]), or [ReadRelations] to read from any
// io.Reader. Identifiers are kept as strings; [Relations.Ints] converts them
// to dense integer relations and [Relations.Pairs] returns them for
// [toposort.SortFunc].
//
// # Export
//
// [WriteOrder] writes a [toposort.Result] either as plain text, one
// identifier per line, or as JSON:
//
//	{"order": [1, 9, 3], "remaining": [], "complete": true}
//
// Errors returned by this package carry codes from
// [github.com/matzehuels/toposort/pkg/errors].
package io
