// Package pipeline runs the read → sort → render flow shared by the CLI and
// the HTTP API.
//
// By centralizing this logic, both entry points resolve identifiers, report
// cycles, log, and cache renders the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Sort: Resolve identifiers (dense integers or arbitrary strings) and
//     order them with [toposort]
//  2. Render: Draw the relations and the ordering as DOT or SVG
//
// # Identifier Modes
//
// [ModeInt] treats every identifier as a dense non-negative integer and runs
// [toposort.Analyze] directly, seeding in ascending numeric order.
// [ModeString] treats identifiers as opaque strings and seeds in
// lexicographic order via [toposort.SortOrdered]. [ModeAuto], the default,
// picks int when every identifier parses as a non-negative integer.
//
// Integer identifiers above [Options.MaxDenseID] are sorted through the
// mapping step instead of a table indexed by identifier. The output is the
// same; only memory use differs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Sort(ctx, pipeline.Options{Relations: rels})
//	if err != nil {
//	    return err
//	}
//	svg, hit, err := runner.Render(ctx, res, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/toposort/pkg/errors"
	pkgio "github.com/matzehuels/toposort/pkg/io"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Identifier modes.
const (
	ModeAuto   = "auto"
	ModeInt    = "int"
	ModeString = "string"
)

// Render formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultMaxDenseID is the largest integer identifier sorted with a table
// indexed directly by identifier.
const DefaultMaxDenseID = 1 << 20

// Modes lists the accepted identifier modes.
var Modes = []string{ModeAuto, ModeInt, ModeString}

// RenderFormats lists the accepted render formats.
var RenderFormats = []string{FormatDOT, FormatSVG}

// =============================================================================
// Options
// =============================================================================

// Options configures a sort.
type Options struct {
	// Relations to order, as read by [pkgio.ReadRelations].
	Relations pkgio.Relations

	// Mode selects how identifiers are interpreted. Empty means [ModeAuto].
	Mode string

	// Strict turns an incomplete ordering into a CYCLE_DETECTED error.
	Strict bool

	// MaxDenseID bounds the dense table. Zero means [DefaultMaxDenseID].
	MaxDenseID int

	// Logger overrides the runner's logger for this call.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the mode and fills in defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if err := errs.ValidateFormat(o.Mode, Modes...); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "invalid mode %q (must be one of: auto, int, string)", o.Mode)
	}
	if o.MaxDenseID <= 0 {
		o.MaxDenseID = DefaultMaxDenseID
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// resolveMode returns the concrete mode for the relations.
func (o *Options) resolveMode() string {
	if o.Mode != ModeAuto {
		return o.Mode
	}
	if o.Relations.Numeric() {
		return ModeInt
	}
	return ModeString
}

// RenderOptions configures a render.
type RenderOptions struct {
	// Format is [FormatDOT] or [FormatSVG]. Empty means SVG.
	Format string

	// Detailed adds output positions to node labels.
	Detailed bool

	// NoCache bypasses the render cache for both reads and writes.
	NoCache bool
}

// ValidateAndSetDefaults checks the format and fills in defaults.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	return errs.ValidateFormat(o.Format, RenderFormats...)
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outcome of a sort.
type Result struct {
	// Mode is the mode that was actually used, never [ModeAuto].
	Mode string

	// Ints holds the result with integer identifiers. Set only in [ModeInt].
	Ints toposort.Result[int]

	// Strings holds the result with identifiers formatted as strings. Always
	// set; in [ModeInt] integers are printed in canonical decimal form.
	Strings toposort.Result[string]

	// Pairs are the input relations with identifiers spelled the way they
	// appear in Strings.
	Pairs []toposort.Pair[string]

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains sort statistics.
type Stats struct {
	Relations int
	Nodes     int
	SortTime  time.Duration
}

// Complete reports whether every referenced item was ordered.
func (r *Result) Complete() bool { return r.Strings.Complete() }

// Err returns the cycle error of the underlying result, or nil.
func (r *Result) Err() error { return r.Strings.Err() }

// WriteOrder writes the ordering in the given [pkgio.OrderFormats] format.
// In [ModeInt], JSON output uses numbers.
func (r *Result) WriteOrder(w io.Writer, format string) error {
	if r.Mode == ModeInt {
		return pkgio.WriteOrder(w, r.Ints, format)
	}
	return pkgio.WriteOrder(w, r.Strings, format)
}

func intsToStrings(ids []int) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}
