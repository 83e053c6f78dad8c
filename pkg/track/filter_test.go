package track

import (
	"testing"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

func feat(id, typ string, fmin, fmax int, strand genome.Strand, tags genome.Tags) *genome.Feature {
	if tags == nil {
		tags = genome.Tags{}
	}
	return &genome.Feature{ID: id, Type: typ, Fmin: fmin, Fmax: fmax, Strand: strand, Tags: tags}
}

func resolveWith(t *testing.T, opts Options) []*genome.Feature {
	t.Helper()
	p, _ := testPipeline(t)
	feats, err := p.Resolve(&Track{Glyph: "rectangle", Options: opts})
	if err != nil {
		t.Fatal(err)
	}
	return feats
}

func ids(feats []*genome.Feature) []string {
	out := make([]string, len(feats))
	for i, f := range feats {
		out[i] = f.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterCriteria(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"type equality", Options{"feature-type": "tRNA"}, []string{"t1"}},
		{"type regex", Options{"feature-type-regex": "RNA$"}, []string{"t1"}},
		{"strand", Options{"feature-type": "gene", "feature-strand": "+"}, []string{"g1"}},
		{"min length", Options{"feature-type": "gene", "min-length": int64(200)}, []string{"g2"}},
		{"max length", Options{"feature-type": "gene", "max-length": int64(150)}, []string{"g1"}},
		{"combined AND", Options{"feature-type": "gene", "feature-strand": "-", "min-length": int64(500)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(resolveWith(t, tt.opts))
			if !equalIDs(got, tt.want...) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTags(t *testing.T) {
	feats := []*genome.Feature{
		feat("a", "gene", 0, 10, genome.Forward, genome.Tags{"product": {"kinase"}, "score": {"5"}}),
		feat("b", "gene", 10, 20, genome.Forward, genome.Tags{"product": {"phosphatase"}, "score": {"12"}}),
		feat("c", "gene", 20, 30, genome.Forward, nil),
	}
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"presence", Options{"tag-present": "product"}, []string{"a", "b"}},
		{"equality", Options{"tag-equals": "product=kinase"}, []string{"a"}},
		{"min value", Options{"tag-min": "score=10"}, []string{"b"}},
		{"max value", Options{"tag-max": "score=10"}, []string{"a"}},
		{"regex", Options{"tag-regex": "product=phos"}, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Track{Glyph: "rectangle", Options: tt.opts}
			preds, err := buildFilters(tr, testSequence(t))
			if err != nil {
				t.Fatal(err)
			}
			got := ids(applyFilters(feats, preds))
			if !equalIDs(got, tt.want...) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad type regex", Options{"feature-type-regex": "("}},
		{"bad strand", Options{"feature-strand": "east"}},
		{"bad tag pair", Options{"tag-equals": "noequals"}},
		{"bad tag bound", Options{"tag-min": "score=high"}},
		{"bad tag regex", Options{"tag-regex": "product=("}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Track{Glyph: "rectangle", Options: tt.opts}
			if _, err := buildFilters(tr, testSequence(t)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFilterOverlapsType(t *testing.T) {
	// testSequence carries a tRNA at [650,700); genes at [100,200) and
	// [300,600) do not touch it, so only features crossing [650,700)
	// survive.
	p, seq := testPipeline(t)
	probe := feat("p", "probe", 690, 800, genome.None, nil)
	if err := seq.Index.Add(probe); err != nil {
		t.Fatal(err)
	}
	tr := &Track{Glyph: "rectangle", Options: Options{
		"feature-type":  "probe",
		"overlaps-type": "tRNA",
	}}
	feats, err := p.Resolve(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(feats), "p") {
		t.Errorf("got %v, want [p]", ids(feats))
	}

	miss := &Track{Glyph: "rectangle", Options: Options{
		"feature-type":  "gene",
		"overlaps-type": "tRNA",
	}}
	feats, err = p.Resolve(miss)
	if err != nil {
		t.Fatal(err)
	}
	if len(feats) != 0 {
		t.Errorf("got %v, want none", ids(feats))
	}
}

func TestFilterCustomPredicate(t *testing.T) {
	p, _ := testPipeline(t)
	tr := &Track{
		Glyph:   "rectangle",
		Options: Options{"feature-type": "gene"},
		Predicate: func(f *genome.Feature) bool {
			return f.Fmin >= 250
		},
	}
	feats, err := p.Resolve(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(feats), "g2") {
		t.Errorf("got %v, want [g2]", ids(feats))
	}
}

func TestClipRange(t *testing.T) {
	feats := []*genome.Feature{
		feat("left", "x", 0, 100, genome.None, nil),
		feat("mid", "x", 150, 250, genome.None, nil),
		feat("touch", "x", 250, 300, genome.None, nil),
		feat("right", "x", 400, 500, genome.None, nil),
	}
	// The clip window is closed on both sides: a feature ending exactly
	// at the low bound or starting exactly at the high bound is kept.
	got := ids(clipRange(feats, 100, 250))
	if !equalIDs(got, "left", "mid", "touch") {
		t.Errorf("got %v", got)
	}
}
