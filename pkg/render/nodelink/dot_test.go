package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/toposort/pkg/toposort"
)

func pairs(ps ...string) []toposort.Pair[string] {
	var out []toposort.Pair[string]
	for i := 0; i+1 < len(ps); i += 2 {
		out = append(out, toposort.Pair[string]{Before: ps[i], After: ps[i+1]})
	}
	return out
}

func TestToDOT_Basic(t *testing.T) {
	rels := pairs("a", "b")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{})

	for _, want := range []string{"digraph G", `"a" [label="a"]`, `"b" [label="b"]`, `"a" -> "b";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_NodeOrder(t *testing.T) {
	rels := pairs("z", "m", "m", "a")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{})

	z := strings.Index(dot, `"z" [`)
	m := strings.Index(dot, `"m" [`)
	a := strings.Index(dot, `"a" [`)
	if z < 0 || m < 0 || a < 0 || !(z < m && m < a) {
		t.Errorf("nodes should be declared in output order z, m, a:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	rels := pairs("a", "b", "c", "d", "d", "c")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{Detailed: true})

	if !strings.Contains(dot, `position: 2`) {
		t.Errorf("ToDOT() detailed output missing position:\n%s", dot)
	}
	if !strings.Contains(dot, `unordered`) {
		t.Errorf("ToDOT() detailed output missing unordered marker:\n%s", dot)
	}
}

func TestToDOT_Cycle(t *testing.T) {
	rels := pairs("a", "b", "b", "a", "x", "y")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() cycle member missing dashed style")
	}
	if !strings.Contains(dot, `"a" -> "b" [color=firebrick];`) {
		t.Errorf("ToDOT() cycle edge not highlighted:\n%s", dot)
	}
	if !strings.Contains(dot, `"x" -> "y";`) {
		t.Errorf("ToDOT() ordered edge should be plain:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		id       string
		position int
		detailed bool
		want     string
	}{
		{"lex", 1, false, "lex"},
		{"lex", 1, true, "lex\nposition: 1"},
		{"lex", 0, true, "lex\nunordered"},
		{"lex", 0, false, "lex"},
	}
	for _, tt := range tests {
		if got := fmtLabel(tt.id, tt.position, tt.detailed); got != tt.want {
			t.Errorf("fmtLabel(%q, %d, %v) = %q, want %q", tt.id, tt.position, tt.detailed, got, tt.want)
		}
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lex", `"lex"`},
		{"größe", `"größe"`},
		{`say"hi"`, `"say\"hi\""`},
		{`C:\tmp`, `"C:\\tmp"`},
		{`trailing\`, `"trailing\\"`},
		{"lex\nposition: 1", `"lex\nposition: 1"`},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRenderSVG_QuotedIdentifiers(t *testing.T) {
	rels := pairs(`C:\tmp`, `say"hi"`, `say"hi"`, "größe", `trailing\`, "größe")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{Detailed: true})

	for _, want := range []string{`"größe" [label="größe\nposition: 4"]`, `"C:\\tmp" -> "say\"hi\"";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `\u00`) || strings.Contains(dot, `\x`) {
		t.Errorf("ToDOT() should not use Go escapes:\n%s", dot)
	}

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "trailing") {
		t.Error("RenderSVG() output missing the label after a trailing backslash")
	}
}

func TestFmtAttrs(t *testing.T) {
	if attrs := fmtAttrs("x", false); len(attrs) != 1 {
		t.Errorf("fmtAttrs() ordered node should have 1 attr, got %d: %v", len(attrs), attrs)
	}
	attrs := fmtAttrs("x", true)
	if len(attrs) != 4 {
		t.Errorf("fmtAttrs() unordered node should have 4 attrs, got %d: %v", len(attrs), attrs)
	}
	if joined := strings.Join(attrs, " "); !strings.Contains(joined, "firebrick") {
		t.Errorf("fmtAttrs() unordered node missing outline color: %v", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	rels := pairs("compile", "link")
	dot := ToDOT(rels, toposort.SortOrdered(rels), Options{Detailed: true})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
