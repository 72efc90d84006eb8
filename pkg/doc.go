// Package pkg provides the libraries behind toposort.
//
// # Overview
//
// toposort reads precedence relations ("a comes before b") and produces an
// order of the items that respects all of them. Items on or behind a cycle
// cannot be ordered; they are reported instead of failing the whole run.
// The pkg directory is organized into these areas:
//
//  1. [toposort] - The sort itself (dense integer table, mapped identifiers, traces)
//  2. [io] - Relation readers (text, JSON, TOML) and order writers
//  3. [pipeline] - Orchestration (read → sort → render) with caching
//  4. [render/nodelink] - Graphviz DOT and SVG diagrams
//  5. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Relation file (text, JSON, TOML)
//	         ↓
//	    [io] package (parse and validate identifiers)
//	         ↓
//	    [pipeline] package (pick int or string mode)
//	         ↓
//	    [toposort] package (Kahn's algorithm)
//	         ↓
//	    Order, or [render/nodelink] for DOT/SVG
//
// # Quick Start
//
// Sort integer relations directly:
//
//	order := toposort.Sort([]toposort.Relation{{Before: 9, After: 2}, {Before: 3, After: 7}})
//
// Or run the whole pipeline on a file:
//
//	rels, _ := io.ImportRelations("deps.txt")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Sort(ctx, pipeline.Options{Relations: rels})
//	res.WriteOrder(os.Stdout, io.FormatText)
//
// # Modes
//
// Integer mode uses a dense table indexed by identifier and seeds items in
// ascending numeric order. String mode maps identifiers to indices in
// lexicographic order first, so seeding follows that order instead. The
// pipeline picks integer mode when every identifier is a non-negative
// integer, unless told otherwise.
//
// [toposort]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/toposort
// [io]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/toposort/pkg/observability
package pkg
