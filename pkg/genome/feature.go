// Package genome holds the data model for the assembled circular
// coordinate space: contigs, features, the feature index, and the
// assembler that merges multiple contigs and gaps into one
// pseudomolecule.
//
// All positions are half-open, 0-based interbase coordinates: a feature
// spans [Fmin, Fmax) and has length Fmax-Fmin.
package genome

import (
	"github.com/rajaldebnath/circleator/pkg/errors"
)

// Strand is the orientation of a feature or contig.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
	// None marks strandless features (SNPs, gaps, markers).
	None Strand = 0
	// Undetermined marks a feature whose strand could not be read.
	// Drawing such a feature is a fatal defect; see Strand.Determined.
	Undetermined Strand = 127
)

// Determined reports whether the strand has one of the three defined
// values +1, -1, 0.
func (s Strand) Determined() bool {
	return s == Forward || s == Reverse || s == None
}

// Flip reverses a stranded orientation. None and Undetermined are
// unchanged.
func (s Strand) Flip() Strand {
	switch s {
	case Forward:
		return Reverse
	case Reverse:
		return Forward
	}
	return s
}

func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	case None:
		return "."
	}
	return "?"
}

// Tags is a string multimap for feature annotations (GFF attributes,
// GenBank qualifiers, VCF info fields).
type Tags map[string][]string

// Add appends a value for the given tag.
func (t Tags) Add(key, value string) {
	t[key] = append(t[key], value)
}

// Get returns the first value for the tag, if present.
func (t Tags) Get(key string) (string, bool) {
	vs := t[key]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Values returns all values for the tag.
func (t Tags) Values(key string) []string {
	return t[key]
}

// Has reports whether the tag is present.
func (t Tags) Has(key string) bool {
	return len(t[key]) > 0
}

// Clone returns a deep copy of the tag map.
func (t Tags) Clone() Tags {
	c := make(Tags, len(t))
	for k, vs := range t {
		c[k] = append([]string(nil), vs...)
	}
	return c
}

// Feature is a single annotated interval on the assembled sequence.
type Feature struct {
	ID     string
	Type   string
	Fmin   int
	Fmax   int
	Strand Strand
	Tags   Tags
	// Contig is the id of the contig the feature originated on, or ""
	// for synthetic whole-sequence features.
	Contig string
}

// Length returns the feature's extent in base pairs.
func (f *Feature) Length() int {
	return f.Fmax - f.Fmin
}

// Midpoint returns the center of the feature's span.
func (f *Feature) Midpoint() float64 {
	return float64(f.Fmin+f.Fmax) / 2
}

// Overlaps reports whether two half-open intervals share any position.
func (f *Feature) Overlaps(o *Feature) bool {
	return f.Fmin < o.Fmax && o.Fmin < f.Fmax
}

// Validate checks the feature's structural invariants.
func (f *Feature) Validate() error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidFeature, "nil feature")
	}
	if f.Fmin > f.Fmax {
		return errors.New(errors.ErrCodeInvalidFeature,
			"feature %s has fmin %d > fmax %d", f.describe(), f.Fmin, f.Fmax)
	}
	return nil
}

func (f *Feature) describe() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Type
}

// Clone returns a deep copy of the feature.
func (f *Feature) Clone() *Feature {
	c := *f
	if f.Tags != nil {
		c.Tags = f.Tags.Clone()
	}
	return &c
}
