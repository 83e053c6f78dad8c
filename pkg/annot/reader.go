// Package annot reads annotation and sequence files into genome features.
//
// Each supported file format has one Reader implementation; a Registry
// built at startup maps format names (and their aliases) to readers. The
// rendering core never inspects file bytes itself; it obtains features
// exclusively through this package, and results are memoized by the Cache
// for the lifetime of the process.
package annot

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
)

// Record is the parse result for one sequence in a file: the features
// found on it, the declared length (0 if the format does not declare
// one), and the residues (empty if the format carries none).
type Record struct {
	SeqID    string
	Features []*genome.Feature
	Length   int
	Residues string
}

// Options tunes format-specific parsing. Fields are ignored by formats
// they do not apply to.
type Options struct {
	// FeatureType overrides the type assigned to parsed rows in
	// formats without an intrinsic type column (SNP tables, VCF).
	FeatureType string
	// Delimiter for delimited tabular formats; 0 means the format's
	// default.
	Delimiter rune
	// Column name overrides for header-driven tabular formats.
	SeqColumn   string
	PosColumn   string
	EndColumn   string
	RefColumn   string
	AltColumn   string
	ValueColumn string
	// Logger receives recoverable parse warnings. Nil discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

func (o Options) featureType(def string) string {
	if o.FeatureType != "" {
		return o.FeatureType
	}
	return def
}

// Reader parses one annotation or sequence file format.
type Reader interface {
	// Format returns the canonical format name.
	Format() string
	// Read parses the file at path into per-sequence records.
	Read(path string, opts Options) ([]Record, error)
}

// Registry maps format names to readers. Build one at startup with
// NewRegistry; lookup by format string happens once per track, not per
// feature.
type Registry struct {
	byName map[string]Reader
}

// NewRegistry returns a registry with every built-in format registered
// under its canonical name and aliases.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Reader)}
	r.Register(GFF3{}, "gff")
	r.Register(GenBank{}, "gbk", "gb", "genbank-flat")
	r.Register(VCF{})
	r.Register(SNPTable{}, "snp", "csv", "tsv")
	r.Register(UCSCTable{}, "ucsc")
	r.Register(TRF{}, "tandem-repeat")
	r.Register(ExprTable{}, "expression")
	r.Register(FASTA{}, "fsa", "fa", "fna")
	return r
}

// Register adds a reader under its canonical format name plus any
// aliases. Later registrations replace earlier ones.
func (r *Registry) Register(reader Reader, aliases ...string) {
	r.byName[reader.Format()] = reader
	for _, a := range aliases {
		r.byName[a] = reader
	}
}

// Get looks up the reader for a format name. Unknown formats are fatal.
func (r *Registry) Get(format string) (Reader, error) {
	reader, ok := r.byName[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownFormat,
			"no annotation reader for format %q (known: %v)", format, r.Formats())
	}
	return reader, nil
}

// Formats returns the sorted canonical format names.
func (r *Registry) Formats() []string {
	seen := map[string]bool{}
	var names []string
	for _, reader := range r.byName {
		if !seen[reader.Format()] {
			seen[reader.Format()] = true
			names = append(names, reader.Format())
		}
	}
	sort.Strings(names)
	return names
}

// AliasesOf returns the sorted aliases registered for a canonical
// format name, not including the name itself.
func (r *Registry) AliasesOf(format string) []string {
	var aliases []string
	for name, reader := range r.byName {
		if name != reader.Format() && reader.Format() == format {
			aliases = append(aliases, name)
		}
	}
	sort.Strings(aliases)
	return aliases
}

func parseStrand(s string) genome.Strand {
	switch s {
	case "+", "+1", "1":
		return genome.Forward
	case "-", "-1":
		return genome.Reverse
	case ".", "0", "":
		return genome.None
	}
	return genome.Undetermined
}
