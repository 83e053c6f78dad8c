package genome

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// DefaultGapSize is the automatic gap inserted between adjacent contigs
// when the input carries no explicit gap entries.
const DefaultGapSize = 10000

// AssembleOptions configures the assembler.
type AssembleOptions struct {
	// GapSize is the automatic inter-contig gap in base pairs.
	// Zero means DefaultGapSize.
	GapSize int
	// Logger receives non-fatal warnings. Nil discards them.
	Logger *log.Logger
}

// Sequence is the assembled circular coordinate space: one or more
// contigs and gaps concatenated into a single pseudomolecule of total
// Length base pairs. Built once, immutable thereafter except for features
// appended to the Index.
type Sequence struct {
	Length  int
	Contigs []*Contig
	Index   *Index
	// Residues is the assembled sequence with 'N' filling gaps and
	// contigs whose residues are unknown. Empty when no contig carried
	// residues.
	Residues string

	byID map[string]*Contig
}

// ContigByID looks up a contig by id.
func (s *Sequence) ContigByID(id string) (*Contig, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Remap converts a feature in contig-local coordinates to assembled
// coordinates, honoring the contig's offset and orientation. Reverse
// orientation mirrors the interval within the contig and flips stranded
// orientations; the feature's length is preserved.
func (c *Contig) Remap(f *Feature) *Feature {
	r := f.Clone()
	r.Contig = c.ID
	if c.Orientation == Reverse {
		r.Fmin = c.Offset + c.Length - f.Fmax
		r.Fmax = c.Offset + c.Length - f.Fmin
		r.Strand = f.Strand.Flip()
	} else {
		r.Fmin = f.Fmin + c.Offset
		r.Fmax = f.Fmax + c.Offset
	}
	return r
}

// Assemble merges the ordered entries into one circular coordinate
// space. A single real contig with no markers becomes the sequence
// as-is; with two or more entries, lengths are concatenated in order
// with an automatic gap between adjacent contigs unless the input
// carries explicit gap entries (explicit and automatic gaps are mutually
// exclusive, never merged).
func Assemble(entries []Entry, opts AssembleOptions) (*Sequence, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	gapSize := opts.GapSize
	if gapSize <= 0 {
		gapSize = DefaultGapSize
	}

	var contigs []*Contig
	explicitGaps := false
	for _, e := range entries {
		switch e.Kind {
		case EntryContig:
			contigs = append(contigs, e.Contig)
		case EntryGap:
			explicitGaps = true
		}
	}
	if len(contigs) == 0 {
		return nil, errors.New(errors.ErrCodeNoContigs, "no usable contigs in input")
	}

	seq := &Sequence{
		Index: NewIndex(),
		byID:  make(map[string]*Contig, len(contigs)),
	}

	multi := len(entries) > 1
	var (
		cursor      int
		gapFeats    []*Feature
		genomeSpans []*Feature
		spanStart   = -1 // offset of first contig since the last genome marker
		prevEnd     int  // end of the most recently placed contig
		residues    strings.Builder
		haveRes     bool
	)

	for i, e := range entries {
		switch e.Kind {
		case EntryContig:
			c := e.Contig
			if _, dup := seq.byID[c.ID]; dup {
				return nil, errors.New(errors.ErrCodeDuplicateContig, "duplicate contig id %q", c.ID)
			}
			if c.Orientation == 0 {
				c.Orientation = Forward
			}
			reconcileLength(c, logger)
			if c.Circular && multi {
				logger.Warnf("contig %s is declared circular but is being merged into a multi-contig pseudomolecule", c.ID)
			}

			c.Offset = cursor
			seq.byID[c.ID] = c
			seq.Contigs = append(seq.Contigs, c)
			if spanStart < 0 {
				spanStart = c.Offset
			}

			if c.Residues != "" {
				haveRes = true
				r := c.Residues
				if c.Orientation == Reverse {
					r = ReverseComplement(r)
				}
				residues.WriteString(r)
				if pad := c.Length - len(r); pad > 0 {
					residues.WriteString(strings.Repeat("N", pad))
				}
			} else {
				residues.WriteString(strings.Repeat("N", c.Length))
			}

			cursor += c.Length
			prevEnd = cursor

			// Automatic gap before the next real contig.
			if !explicitGaps && multi && nextContig(entries, i+1) {
				gapFeats = append(gapFeats, &Feature{
					Type:   TypeContigGap,
					Fmin:   cursor,
					Fmax:   cursor + gapSize,
					Strand: None,
				})
				residues.WriteString(strings.Repeat("N", gapSize))
				cursor += gapSize
			}

		case EntryGap:
			gapFeats = append(gapFeats, &Feature{
				Type:   TypeContigGap,
				Fmin:   cursor,
				Fmax:   cursor + e.GapLength,
				Strand: None,
			})
			residues.WriteString(strings.Repeat("N", e.GapLength))
			cursor += e.GapLength

		case EntryGenome:
			if spanStart < 0 {
				logger.Warnf("genome marker %q closes an empty span, skipping", e.Name)
				continue
			}
			g := &Feature{
				ID:     e.Name,
				Type:   TypeGenome,
				Fmin:   spanStart,
				Fmax:   prevEnd,
				Strand: None,
				Tags:   Tags{},
			}
			if e.Name != "" {
				g.Tags.Add("name", e.Name)
			}
			genomeSpans = append(genomeSpans, g)
			spanStart = -1
		}
	}

	seq.Length = cursor
	if haveRes {
		seq.Residues = residues.String()
	}

	// Remap and register each contig's declared features.
	for _, c := range seq.Contigs {
		for _, f := range c.Features {
			if err := seq.Index.Add(c.Remap(f)); err != nil {
				return nil, err
			}
		}
	}

	// Synthetic contig, gap, genome, and whole-sequence features.
	for _, c := range seq.Contigs {
		name := c.DisplayName
		if name == "" {
			name = c.ID
		}
		cf := &Feature{
			ID:     c.ID,
			Type:   TypeContig,
			Fmin:   c.Offset,
			Fmax:   c.Offset + c.Length,
			Strand: c.Orientation,
			Tags:   Tags{},
			Contig: c.ID,
		}
		cf.Tags.Add("name", name)
		if err := seq.Index.Add(cf); err != nil {
			return nil, err
		}
	}
	for _, g := range gapFeats {
		if err := seq.Index.Add(g); err != nil {
			return nil, err
		}
	}
	for _, g := range genomeSpans {
		if err := seq.Index.Add(g); err != nil {
			return nil, err
		}
	}
	ref := &Feature{
		ID:     "reference",
		Type:   TypeReference,
		Fmin:   0,
		Fmax:   seq.Length,
		Strand: None,
	}
	if err := seq.Index.Add(ref); err != nil {
		return nil, err
	}

	return seq, nil
}

// reconcileLength settles disagreements between a contig's declared
// length and its actual residues, preferring the larger value.
func reconcileLength(c *Contig, logger *log.Logger) {
	actual := len(c.Residues)
	switch {
	case c.Length == 0:
		c.Length = actual
	case actual != 0 && actual != c.Length:
		larger := max(c.Length, actual)
		logger.Warnf("contig %s: declared length %d disagrees with sequence length %d, using %d",
			c.ID, c.Length, actual, larger)
		c.Length = larger
	}
}

func nextContig(entries []Entry, from int) bool {
	for _, e := range entries[from:] {
		if e.Kind == EntryContig {
			return true
		}
	}
	return false
}

// ReverseComplement returns the reverse complement of a nucleotide
// string, preserving case. Ambiguity codes map to their complements; any
// other byte is left unchanged.
func ReverseComplement(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i <= j; i, j = i+1, j-1 {
		b[i], b[j] = complementBase(b[j]), complementBase(b[i])
	}
	return string(b)
}

var complementTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	pairs := "ATTAGCCGRYYRKMMKBVVBDHHD"
	for i := 0; i < len(pairs); i += 2 {
		u, c := pairs[i], pairs[i+1]
		t[u] = c
		t[u+'a'-'A'] = c + 'a' - 'A'
	}
	return t
}()

func complementBase(b byte) byte {
	return complementTable[b]
}
