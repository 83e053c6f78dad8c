package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testGFF = `##gff-version 3
##sequence-region chr 1 5000
chr	test	gene	101	400	.	+	.	ID=geneA
chr	test	gene	1001	2000	.	-	.	ID=geneB
`

const testConfig = `
[[track]]
glyph = "rectangle"
start-frac = 0.9
end-frac = 1.0
feature-type = "gene"

[[track]]
glyph = "ruler"
start-frac = 0.85
end-frac = 0.87
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "map.toml", testConfig)
	gff := writeFile(t, dir, "ann.gff", testGFF)
	out := filepath.Join(dir, "map.svg")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "-c", cfg, "--data", gff, "-f", "gff", "-o", out})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(svg)
	if !strings.Contains(doc, "<svg") || !strings.Contains(doc, "</svg>") {
		t.Error("output is not an SVG document")
	}
	if !strings.Contains(doc, `<g id="track-1">`) {
		t.Error("track group missing from output")
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "map.toml", testConfig)
	gff := writeFile(t, dir, "ann.gff", testGFF)

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "-c", cfg, "--data", gff, "-f", "gff"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "map.svg")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "map.toml", testConfig)
	gff := writeFile(t, dir, "ann.gff", testGFF)

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "-c", cfg, "--data", gff, "-f", "nonsense"})

	if err := root.Execute(); err == nil {
		t.Fatal("unknown format should fail")
	}
}
