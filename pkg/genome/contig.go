package genome

// Synthetic feature types added by the assembler for downstream tracks to
// reference.
const (
	TypeContig    = "contig"
	TypeContigGap = "contig_gap"
	TypeGenome    = "genome"
	TypeReference = "reference_sequence"
)

// Contig is one real sequence unit of the assembly.
type Contig struct {
	ID          string
	DisplayName string
	// Length is the contig's extent in base pairs. If Residues is set
	// and disagrees, the assembler keeps the larger value and warns.
	Length int
	// Orientation is Forward or Reverse; reverse contigs have their
	// coordinates and feature strands flipped during assembly.
	Orientation Strand
	// Offset is the contig's absolute start in the assembled sequence.
	// Set by the assembler.
	Offset int
	// Residues holds the contig's sequence, if available.
	Residues string
	// Circular marks a contig that was declared circular on its own.
	Circular bool
	// Features are the contig's annotations in contig-local
	// coordinates. The assembler remaps them into assembled
	// coordinates.
	Features []*Feature

	// Source file references carried from a contig list entry; the
	// pipeline resolves these into Residues and Features before
	// assembly.
	AnnotPath   string
	AnnotFormat string
	SeqPath     string
}

// EntryKind distinguishes real contigs from gap and genome markers in the
// assembler's input.
type EntryKind int

const (
	// EntryContig is a real contig carrying sequence and features.
	EntryContig EntryKind = iota
	// EntryGap is an explicit gap of declared length and no features.
	EntryGap
	// EntryGenome is a zero-length marker that closes a span covering
	// all contigs since the previous marker.
	EntryGenome
)

// Entry is one ordered item of the assembler's input.
type Entry struct {
	Kind   EntryKind
	Contig *Contig // EntryContig only
	// GapLength is the declared gap size for EntryGap.
	GapLength int
	// Name is the aggregate feature name for EntryGenome.
	Name string
}

// ContigEntry wraps a contig as an assembler input entry.
func ContigEntry(c *Contig) Entry {
	return Entry{Kind: EntryContig, Contig: c}
}

// GapEntry builds an explicit gap entry.
func GapEntry(length int) Entry {
	return Entry{Kind: EntryGap, GapLength: length}
}

// GenomeEntry builds a genome marker entry.
func GenomeEntry(name string) Entry {
	return Entry{Kind: EntryGenome, Name: name}
}
