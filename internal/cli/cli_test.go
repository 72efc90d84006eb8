package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/toposort/pkg/errors"
	"github.com/matzehuels/toposort/pkg/observability"
)

const sampleText = `9 2
3 7
7 5
5 8
8 6
4 6
1 3
7 4
9 5
2 8
`

const sampleOrder = "1\n9\n3\n2\n7\n5\n4\n8\n6\n"

func TestMain(m *testing.M) {
	statusOut = io.Discard
	os.Exit(m.Run())
}

// isolate points the config and cache directories at fresh temp dirs and
// returns the config directory.
func isolate(t *testing.T) string {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
	return configHome
}

// run executes the root command with args and stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runLogged(t, io.Discard, stdin, args...)
}

// runLogged is run with the CLI logger writing to logs.
func runLogged(t *testing.T, logs io.Writer, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(logs, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSampleCommand(t *testing.T) {
	isolate(t)
	got, err := run(t, "", "sample")
	if err != nil {
		t.Fatalf("sample error: %v", err)
	}
	if got != sampleOrder {
		t.Errorf("sample = %q, want %q", got, sampleOrder)
	}
}

func TestSortCommand(t *testing.T) {
	isolate(t)
	file := writeFile(t, "deps.txt", sampleText)
	jsonFile := writeFile(t, "deps.json", `{"relations":[{"before":"lex","after":"parse"},{"before":"parse","after":"emit"}]}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"stdin", sampleText, []string{"sort"}, sampleOrder},
		{"dash", sampleText, []string{"sort", "-"}, sampleOrder},
		{"file", "", []string{"sort", file}, sampleOrder},
		{"json file", "", []string{"sort", jsonFile}, "lex\nparse\nemit\n"},
		{"input format", `{"relations":[{"before":2,"after":1}]}`, []string{"sort", "--input-format", "json"}, "2\n1\n"},
		{"string mode", "10 1\n9 1\n", []string{"sort", "--mode", "string"}, "10\n9\n1\n"},
		{"int mode", "10 1\n9 1\n", []string{"sort", "--mode", "int"}, "9\n10\n1\n"},
		{"cycle drops items", "1 2\n2 1\n0 3\n", []string{"sort"}, "0\n3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("sort error: %v", err)
			}
			if got != tt.want {
				t.Errorf("sort = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortCommandJSON(t *testing.T) {
	isolate(t)
	got, err := run(t, "1 2\n2 1\n0 3\n", "sort", "--format", "json")
	if err != nil {
		t.Fatalf("sort error: %v", err)
	}

	var out struct {
		Order     []int `json:"order"`
		Remaining []int `json:"remaining"`
		Complete  bool  `json:"complete"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	if len(out.Order) != 2 || out.Order[0] != 0 || out.Order[1] != 3 {
		t.Errorf("order = %v, want [0 3]", out.Order)
	}
	if len(out.Remaining) != 2 || out.Remaining[0] != 1 || out.Remaining[1] != 2 {
		t.Errorf("remaining = %v, want [1 2]", out.Remaining)
	}
	if out.Complete {
		t.Error("complete = true, want false")
	}
}

func TestSortCommandErrors(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errs.Code
	}{
		{"strict cycle", "1 2\n2 1\n", []string{"sort", "--strict"}, errs.ErrCodeCycle},
		{"bad output format", sampleText, []string{"sort", "--format", "yaml"}, errs.ErrCodeInvalidFormat},
		{"bad input format", sampleText, []string{"sort", "--input-format", "yaml"}, errs.ErrCodeInvalidFormat},
		{"bad mode", sampleText, []string{"sort", "--mode", "float"}, errs.ErrCodeInvalidInput},
		{"words in int mode", "a b\n", []string{"sort", "--mode", "int"}, errs.ErrCodeInvalidRelation},
		{"malformed line", "1 2 3\n", []string{"sort"}, errs.ErrCodeInvalidRelation},
		{"missing file", "", []string{"sort", missing}, errs.ErrCodeFileNotFound},
		{"missing file with format", "", []string{"sort", "--input-format", "text", missing}, errs.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("sort error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRenderCommandDOT(t *testing.T) {
	isolate(t)
	got, err := run(t, sampleText, "render", "--format", "dot")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(got, "digraph") {
		t.Errorf("render output should start with digraph, got %q", got)
	}
	if strings.Contains(got, "position:") {
		t.Error("labels should be plain without --detailed")
	}

	got, err = run(t, sampleText, "render", "--format", "dot", "--detailed")
	if err != nil {
		t.Fatalf("render --detailed error: %v", err)
	}
	if !strings.Contains(got, "position: 1") {
		t.Errorf("detailed labels missing from %q", got)
	}
}

func TestRenderCommandSVGFile(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "deps.svg")

	stdout, err := run(t, sampleText, "render", "-o", out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if stdout != "" {
		t.Errorf("render with -o should not write to stdout, got %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output file is not an SVG")
	}

	dir, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if _, err := os.Stat(strings.TrimSpace(dir)); err != nil {
		t.Errorf("render should populate the cache dir: %v", err)
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	isolate(t)
	_, err := run(t, sampleText, "render", "--format", "png")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("render error = %v, want code %v", err, errs.ErrCodeInvalidFormat)
	}
}

func TestStepCommandPlain(t *testing.T) {
	isolate(t)
	got, err := run(t, "2 1\n", "step", "--plain")
	if err != nil {
		t.Fatalf("step error: %v", err)
	}
	want := "count     1 (1 pending)\n" +
		"count     2 (0 pending)\n" +
		"seed      2\n" +
		"visit     2\n" +
		"decrement 1 via 2 (0 left)\n" +
		"enqueue   1 via 2\n" +
		"visit     1\n"
	if got != want {
		t.Errorf("step --plain =\n%s\nwant\n%s", got, want)
	}
}

func TestStepCommandPlainStrings(t *testing.T) {
	isolate(t)
	got, err := run(t, "lex parse\n", "step", "--plain")
	if err != nil {
		t.Fatalf("step error: %v", err)
	}
	want := "count     lex (0 pending)\n" +
		"count     parse (1 pending)\n" +
		"seed      lex\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("step --plain = %q, want it to start with %q", got, want)
	}
}

func TestCachePath(t *testing.T) {
	isolate(t)
	cacheHome := os.Getenv("XDG_CACHE_HOME")

	got, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if want := filepath.Join(cacheHome, "toposort") + "\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)

	// Nothing cached yet.
	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}

	out := filepath.Join(t.TempDir(), "deps.svg")
	if _, err := run(t, sampleText, "render", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	configHome := isolate(t)
	dir := filepath.Join(configHome, "toposort")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := t.TempDir()
	content := "[render]\ndetailed = true\n\n[cache]\ndir = " + `"` + filepath.ToSlash(custom) + `"` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, sampleText, "render", "--format", "dot")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(got, "position: 1") {
		t.Error("render.detailed from the config file was not applied")
	}

	got, err = run(t, sampleText, "render", "--format", "dot", "--detailed=false")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if strings.Contains(got, "position:") {
		t.Error("--detailed=false should override the config file")
	}

	got, err = run(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(got) != filepath.ToSlash(custom) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(got), custom)
	}
}

func TestConfigFlagErrors(t *testing.T) {
	isolate(t)
	bad := writeFile(t, "bad.toml", "[log]\nlevel = \"loud\"\n")
	unknown := writeFile(t, "unknown.toml", "[render]\ncolour = true\n")
	missing := filepath.Join(t.TempDir(), "missing.toml")

	tests := []struct {
		name string
		path string
		code errs.Code
	}{
		{"bad level", bad, errs.ErrCodeInvalidConfig},
		{"unknown key", unknown, errs.ErrCodeInvalidConfig},
		{"missing", missing, errs.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", "--config", tt.path, "sample")
			if !errs.Is(err, tt.code) {
				t.Errorf("--config error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	got, err := run(t, "", "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(got, "toposort version ") {
		t.Errorf("--version = %q, want it to start with %q", got, "toposort version ")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			got, err := run(t, "", "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(got, "toposort") {
				t.Errorf("completion %s output does not mention toposort", shell)
			}
		})
	}
}
