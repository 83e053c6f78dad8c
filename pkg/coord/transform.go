// Package coord maps linear sequence positions onto a circle.
//
// The package provides two layers. Transform rescales positions along the
// sequence axis: the identity transform leaves positions alone, while a
// piecewise transform expands or contracts chosen segments (a zoomed-in
// region of interest, a collapsed backbone). Circle then converts
// transformed positions into angles, Cartesian points, and quadrants at a
// fixed drawing radius.
//
// All positions are half-open interbase coordinates in [0, L), where L is
// the total sequence length in base pairs.
package coord

import (
	"fmt"
	"sort"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// Transform rescales a sequence position. Implementations must be total
// over [0, L), monotonic, and continuous, and Invert must be the exact
// inverse of Apply over the transformed range.
type Transform interface {
	// Apply maps a sequence position to its transformed position.
	Apply(x float64) float64
	// Invert maps a transformed position back to the sequence position.
	Invert(x float64) float64
}

// Identity is the no-op transform.
type Identity struct{}

func (Identity) Apply(x float64) float64  { return x }
func (Identity) Invert(x float64) float64 { return x }

// Segment is one rescaled region of a piecewise transform. Positions in
// [Fmin, Fmax) have their extent multiplied by Scale; positions outside
// every segment map 1:1 but are shifted by the net expansion or
// contraction of the segments before them.
type Segment struct {
	Fmin  float64
	Fmax  float64
	Scale float64
}

func (s Segment) shift() float64 {
	return (s.Fmax - s.Fmin) * (s.Scale - 1)
}

// Piecewise is a piecewise-linear transform built from an ordered list of
// disjoint segments. The zero value is not usable; construct with
// NewPiecewise.
type Piecewise struct {
	length   float64
	segments []Segment
}

// NewPiecewise builds a piecewise transform over a sequence of the given
// length. Segments may be passed in any order; they are sorted by Fmin.
// Construction fails if any segment is malformed or out of range, if two
// segments overlap, or if the cumulative scaled extent of the segments
// exceeds the sequence length (the geometry cannot fit on the circle).
func NewPiecewise(length float64, segments []Segment) (*Piecewise, error) {
	if length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidScale, "sequence length must be positive, got %g", length)
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Fmin < segs[j].Fmin })

	scaled := 0.0
	for i, s := range segs {
		if s.Fmin < 0 || s.Fmax > length || s.Fmin >= s.Fmax {
			return nil, errors.New(errors.ErrCodeInvalidScale,
				"scaled segment [%g,%g) is not a valid range within [0,%g)", s.Fmin, s.Fmax, length)
		}
		if s.Scale <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidScale,
				"scale factor for segment [%g,%g) must be positive, got %g", s.Fmin, s.Fmax, s.Scale)
		}
		if i > 0 && s.Fmin < segs[i-1].Fmax {
			return nil, errors.New(errors.ErrCodeInvalidScale,
				"scaled segments [%g,%g) and [%g,%g) overlap",
				segs[i-1].Fmin, segs[i-1].Fmax, s.Fmin, s.Fmax)
		}
		scaled += (s.Fmax - s.Fmin) * s.Scale
	}
	if scaled > length {
		return nil, errors.New(errors.ErrCodeInvalidScale,
			"scaled segments occupy %g bp of a %g bp sequence", scaled, length)
	}
	return &Piecewise{length: length, segments: segs}, nil
}

// Apply maps a sequence position to its transformed position.
func (p *Piecewise) Apply(x float64) float64 {
	shift := 0.0
	for _, s := range p.segments {
		if x < s.Fmin {
			break
		}
		if x < s.Fmax {
			return s.Fmin + shift + (x-s.Fmin)*s.Scale
		}
		shift += s.shift()
	}
	return x + shift
}

// Invert maps a transformed position back to the sequence position.
func (p *Piecewise) Invert(x float64) float64 {
	shift := 0.0
	for _, s := range p.segments {
		tmin := s.Fmin + shift
		if x < tmin {
			break
		}
		tmax := tmin + (s.Fmax-s.Fmin)*s.Scale
		if x < tmax {
			return s.Fmin + (x-tmin)/s.Scale
		}
		shift += s.shift()
	}
	return x - shift
}

// TransformedLength returns the length of the transformed coordinate
// space: the sequence length plus the net expansion of all segments.
func (p *Piecewise) TransformedLength() float64 {
	shift := 0.0
	for _, s := range p.segments {
		shift += s.shift()
	}
	return p.length + shift
}

// Segments returns the ordered segment list.
func (p *Piecewise) Segments() []Segment {
	return p.segments
}

func (p *Piecewise) String() string {
	return fmt.Sprintf("piecewise transform with %d segment(s) over %g bp", len(p.segments), p.length)
}

// TransformedLength reports the total extent of the transformed coordinate
// space for any transform over a sequence of the given length. Identity
// and other 1:1 transforms keep the sequence length.
func TransformedLength(t Transform, length float64) float64 {
	if p, ok := t.(*Piecewise); ok {
		return p.TransformedLength()
	}
	return length
}
