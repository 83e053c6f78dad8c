package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
radius = 600.0
pad = 20.0
rotation = 90.0
gap-size = 5000
scale = "1000-2000:2"

[[track]]
name = "genes"
glyph = "rectangle"
start-frac = 0.9
end-frac = 1.0
feature-type = "gene"
color = "#000080"

[[track]]
glyph = "ruler"
start-frac = 0.84
end-frac = 0.88
tick-interval = 100000
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Radius != 600 || cfg.Pad != 20 || cfg.Rotation != 90 {
		t.Errorf("drawing settings = %v/%v/%v", cfg.Radius, cfg.Pad, cfg.Rotation)
	}
	if cfg.GapSize != 5000 || cfg.Scale != "1000-2000:2" {
		t.Errorf("gap-size/scale = %v/%q", cfg.GapSize, cfg.Scale)
	}
	if len(cfg.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(cfg.Tracks))
	}
	genes := cfg.Tracks[0]
	if genes.Name != "genes" || genes.Glyph != "rectangle" {
		t.Errorf("track 1 = %q/%q", genes.Name, genes.Glyph)
	}
	if genes.StartFrac != 0.9 || genes.EndFrac != 1.0 {
		t.Errorf("track 1 extent = [%v,%v]", genes.StartFrac, genes.EndFrac)
	}
	if got := genes.Options.String("color", ""); got != "#000080" {
		t.Errorf("color = %q", got)
	}
	if got := cfg.Tracks[1].Options.Int("tick-interval", 0); got != 100000 {
		t.Errorf("tick-interval = %d", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing glyph", "[[track]]\nname = \"x\"\n"},
		{"bad extent", "[[track]]\nglyph = \"rectangle\"\nend-frac = 1.5\n"},
		{"bad toml", "[[track]\n"},
		{"nested under non-loop", `
[[track]]
glyph = "rectangle"
[[track.track]]
glyph = "label"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestExpandLoopValues(t *testing.T) {
	cfg, err := ParseConfig(`
[[track]]
glyph = "loop"
loop-var = "t"
loop-values = ["gene", "tRNA", "rRNA"]

[[track.track]]
name = "${t}-band"
glyph = "rectangle"
feature-type = "${t}"

[[track]]
glyph = "ruler"
`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Expand(cfg.Tracks)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d tracks, want 4", len(out))
	}
	wantNames := []string{"gene-band", "tRNA-band", "rRNA-band", ""}
	for i, w := range wantNames {
		if out[i].Name != w {
			t.Errorf("track %d name = %q, want %q", i, out[i].Name, w)
		}
	}
	if got := out[1].Options.String("feature-type", ""); got != "tRNA" {
		t.Errorf("substituted feature-type = %q, want tRNA", got)
	}
	if out[3].Glyph != "ruler" {
		t.Errorf("trailing track glyph = %q", out[3].Glyph)
	}
}

func TestExpandLoopRange(t *testing.T) {
	cfg, err := ParseConfig(`
[[track]]
glyph = "loop"
loop-var = "n"
loop-start = 1
loop-end = 5
loop-step = 2

[[track.track]]
name = "band-${n}"
glyph = "rectangle"
`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Expand(cfg.Tracks)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d tracks, want 3", len(out))
	}
	for i, w := range []string{"band-1", "band-3", "band-5"} {
		if out[i].Name != w {
			t.Errorf("track %d name = %q, want %q", i, out[i].Name, w)
		}
	}
}

func TestExpandLoopErrors(t *testing.T) {
	tests := []struct {
		name  string
		track *Track
	}{
		{"no nested tracks", &Track{Glyph: GlyphLoop, Options: Options{"loop-values": []any{"a"}}}},
		{"no iteration source", &Track{
			Glyph:   GlyphLoop,
			Options: Options{},
			Sub:     []*Track{{Glyph: "rectangle", Options: Options{}}},
		}},
		{"bad step", &Track{
			Glyph:   GlyphLoop,
			Options: Options{"loop-start": int64(1), "loop-end": int64(3), "loop-step": int64(0)},
			Sub:     []*Track{{Glyph: "rectangle", Options: Options{}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Expand([]*Track{tt.track}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExpandDoesNotShareOptionBags(t *testing.T) {
	src := &Track{Glyph: "rectangle", Options: Options{"color": "red"}}
	out, err := Expand([]*Track{src})
	if err != nil {
		t.Fatal(err)
	}
	out[0].Options["color"] = "blue"
	if got := src.Options.String("color", ""); got != "red" {
		t.Errorf("source option mutated to %q", got)
	}
}
