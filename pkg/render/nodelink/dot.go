package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/toposort/pkg/toposort"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the output position to node labels.
	// When false, only the identifier is shown.
	Detailed bool
}

// ToDOT converts relations and their sort result to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Ordered items are declared first, in output order, followed by the
// remaining items. Identifiers that appear in rels but in neither list are
// left to Graphviz to declare implicitly.
func ToDOT(rels []toposort.Pair[string], res toposort.Result[string], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	remaining := make(map[string]bool, len(res.Remaining))
	for _, id := range res.Remaining {
		remaining[id] = true
	}

	for i, id := range res.Order {
		label := fmtLabel(id, i+1, opts.Detailed)
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(id), strings.Join(fmtAttrs(label, false), ", "))
	}
	for _, id := range res.Remaining {
		label := fmtLabel(id, 0, opts.Detailed)
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(id), strings.Join(fmtAttrs(label, true), ", "))
	}

	buf.WriteString("\n")
	for _, r := range rels {
		if remaining[r.Before] && remaining[r.After] {
			fmt.Fprintf(&buf, "  %s -> %s [color=firebrick];\n", dotQuote(r.Before), dotQuote(r.After))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(r.Before), dotQuote(r.After))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtLabel builds a node label. A position of 0 marks an unordered item.
func fmtLabel(id string, position int, detailed bool) string {
	if !detailed {
		return id
	}
	if position == 0 {
		return id + "\nunordered"
	}
	return fmt.Sprintf("%s\nposition: %d", id, position)
}

// dotEscaper escapes a string for a double-quoted DOT ID. Backslashes are
// doubled so labels show them once and a trailing one cannot end the string.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func fmtAttrs(label string, unordered bool) []string {
	attrs := []string{"label=" + dotQuote(label)}
	if unordered {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=firebrick", "fillcolor=mistyrose")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
