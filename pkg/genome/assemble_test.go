package genome

import (
	"testing"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

func TestAssembleSingleContig(t *testing.T) {
	seq, err := Assemble([]Entry{
		ContigEntry(&Contig{ID: "plasmid", Length: 5000}),
	}, AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if seq.Length != 5000 {
		t.Errorf("Length = %d, want 5000", seq.Length)
	}
	if seq.Contigs[0].Offset != 0 {
		t.Errorf("Offset = %d, want 0", seq.Contigs[0].Offset)
	}
	// No gaps for a single contig.
	if gaps := seq.Index.ByType(TypeContigGap); len(gaps) != 0 {
		t.Errorf("got %d gap features, want 0", len(gaps))
	}
	if refs := seq.Index.ByType(TypeReference); len(refs) != 1 || refs[0].Fmax != 5000 {
		t.Errorf("reference_sequence missing or wrong: %+v", refs)
	}
}

func TestAssembleTwoContigsAutoGap(t *testing.T) {
	// Contigs X(1000,+) and Y(2000,-) joined by an automatic 500 bp gap:
	// total 3500, X at 0, gap at [1000,1500), Y at 1500. A feature on Y
	// at (1,100,+) lands at (3400,3499,-) with its length preserved.
	y := &Contig{
		ID: "Y", Length: 2000, Orientation: Reverse,
		Features: []*Feature{{ID: "g1", Type: "gene", Fmin: 1, Fmax: 100, Strand: Forward}},
	}
	seq, err := Assemble([]Entry{
		ContigEntry(&Contig{ID: "X", Length: 1000}),
		ContigEntry(y),
	}, AssembleOptions{GapSize: 500})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if seq.Length != 3500 {
		t.Errorf("Length = %d, want 3500", seq.Length)
	}
	x, _ := seq.ContigByID("X")
	if x.Offset != 0 {
		t.Errorf("X offset = %d, want 0", x.Offset)
	}
	if y.Offset != 1500 {
		t.Errorf("Y offset = %d, want 1500", y.Offset)
	}

	gaps := seq.Index.ByType(TypeContigGap)
	if len(gaps) != 1 || gaps[0].Fmin != 1000 || gaps[0].Fmax != 1500 {
		t.Fatalf("gap features = %+v, want one at [1000,1500)", gaps)
	}

	genes := seq.Index.ByType("gene")
	if len(genes) != 1 {
		t.Fatalf("got %d gene features, want 1", len(genes))
	}
	g := genes[0]
	if g.Fmin != 3400 || g.Fmax != 3499 {
		t.Errorf("remapped gene = [%d,%d), want [3400,3499)", g.Fmin, g.Fmax)
	}
	if g.Strand != Reverse {
		t.Errorf("remapped strand = %v, want -", g.Strand)
	}
	if g.Length() != 99 {
		t.Errorf("remapped length = %d, want 99", g.Length())
	}
}

func TestAssembleLengthSum(t *testing.T) {
	entries := []Entry{
		ContigEntry(&Contig{ID: "a", Length: 100}),
		GapEntry(30),
		ContigEntry(&Contig{ID: "b", Length: 200}),
		GapEntry(40),
		ContigEntry(&Contig{ID: "c", Length: 300}),
	}
	seq, err := Assemble(entries, AssembleOptions{GapSize: 999})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// Explicit gaps suppress automatic ones entirely.
	if seq.Length != 100+30+200+40+300 {
		t.Errorf("Length = %d, want 670", seq.Length)
	}
	if len(seq.Index.ByType(TypeContigGap)) != 2 {
		t.Errorf("gap count = %d, want 2 (explicit only)", len(seq.Index.ByType(TypeContigGap)))
	}

	// Offsets strictly ordered by input order.
	prev := -1
	for _, c := range seq.Contigs {
		if c.Offset <= prev {
			t.Errorf("contig %s offset %d not increasing", c.ID, c.Offset)
		}
		prev = c.Offset
	}
}

func TestAssembleGenomeMarker(t *testing.T) {
	entries := []Entry{
		ContigEntry(&Contig{ID: "a", Length: 100}),
		ContigEntry(&Contig{ID: "b", Length: 200}),
		GenomeEntry("isolate-1"),
		ContigEntry(&Contig{ID: "c", Length: 300}),
		GenomeEntry("isolate-2"),
	}
	seq, err := Assemble(entries, AssembleOptions{GapSize: 50})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	spans := seq.Index.ByType(TypeGenome)
	if len(spans) != 2 {
		t.Fatalf("got %d genome spans, want 2", len(spans))
	}
	// First span covers a through the end of b; gaps after b are not
	// part of the span.
	if spans[0].Fmin != 0 || spans[0].Fmax != 350 {
		t.Errorf("first genome span = [%d,%d), want [0,350)", spans[0].Fmin, spans[0].Fmax)
	}
	if name, _ := spans[0].Tags.Get("name"); name != "isolate-1" {
		t.Errorf("first span name = %q", name)
	}
	// Second span starts at c's offset.
	c, _ := seq.ContigByID("c")
	if spans[1].Fmin != c.Offset || spans[1].Fmax != c.Offset+300 {
		t.Errorf("second genome span = [%d,%d), want [%d,%d)", spans[1].Fmin, spans[1].Fmax, c.Offset, c.Offset+300)
	}
}

func TestAssembleDuplicateContig(t *testing.T) {
	_, err := Assemble([]Entry{
		ContigEntry(&Contig{ID: "a", Length: 100}),
		ContigEntry(&Contig{ID: "a", Length: 200}),
	}, AssembleOptions{})
	if !errors.Is(err, errors.ErrCodeDuplicateContig) {
		t.Errorf("err = %v, want DUPLICATE_CONTIG", err)
	}
}

func TestAssembleNoContigs(t *testing.T) {
	_, err := Assemble([]Entry{GapEntry(100)}, AssembleOptions{})
	if !errors.Is(err, errors.ErrCodeNoContigs) {
		t.Errorf("err = %v, want NO_CONTIGS", err)
	}
}

func TestAssembleLengthMismatchPrefersLarger(t *testing.T) {
	seq, err := Assemble([]Entry{
		ContigEntry(&Contig{ID: "a", Length: 50, Residues: "ACGTACGTAC"}),
	}, AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if seq.Length != 50 {
		t.Errorf("Length = %d, want declared 50 (larger)", seq.Length)
	}

	seq, err = Assemble([]Entry{
		ContigEntry(&Contig{ID: "b", Length: 4, Residues: "ACGTACGTAC"}),
	}, AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if seq.Length != 10 {
		t.Errorf("Length = %d, want actual 10 (larger)", seq.Length)
	}
}

func TestRemapForwardIdentityPlusOffset(t *testing.T) {
	c := &Contig{ID: "x", Length: 1000, Offset: 700, Orientation: Forward}
	f := &Feature{Fmin: 10, Fmax: 60, Strand: Reverse}
	r := c.Remap(f)
	if r.Fmin != 710 || r.Fmax != 760 || r.Strand != Reverse {
		t.Errorf("Remap = [%d,%d) %v", r.Fmin, r.Fmax, r.Strand)
	}
}

func TestRemapReversePreservesLength(t *testing.T) {
	c := &Contig{ID: "x", Length: 1000, Offset: 500, Orientation: Reverse}
	for _, f := range []*Feature{
		{Fmin: 0, Fmax: 1000, Strand: Forward},
		{Fmin: 100, Fmax: 200, Strand: Forward},
		{Fmin: 999, Fmax: 1000, Strand: None},
	} {
		r := c.Remap(f)
		if r.Length() != f.Length() {
			t.Errorf("Remap changed length: %d -> %d", f.Length(), r.Length())
		}
		if r.Fmin < c.Offset || r.Fmax > c.Offset+c.Length {
			t.Errorf("Remap escaped the contig span: [%d,%d)", r.Fmin, r.Fmax)
		}
		if f.Strand == None && r.Strand != None {
			t.Errorf("Remap flipped strandless feature to %v", r.Strand)
		}
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ACGT", "ACGT"},
		{"AAAACC", "GGTTTT"},
		{"acgtn", "nacgt"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ReverseComplement(tt.in); got != tt.want {
			t.Errorf("ReverseComplement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
