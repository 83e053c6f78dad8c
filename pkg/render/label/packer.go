// Package label packs track labels into radial tiers. Font size and
// tier count are solved jointly: a larger font widens every label and
// forces more tiers, while more tiers shrink the per-tier band and
// with it the font. The packer scans candidate font sizes and keeps
// the best feasible trade-off.
package label

import (
	"math"
	"sort"

	"github.com/rajaldebnath/circleator/pkg/coord"
)

// Label is one packable label. Position anchors it on the sequence;
// Fmin/Fmax give its native extent (equal to Position for point
// labels). Pack fills Tier, PackedFmin/PackedFmax and FontHeightFrac.
type Label struct {
	Text     string
	Position float64
	Fmin     float64
	Fmax     float64

	// Tier is the assigned radial sub-band, 0 innermost within the
	// track unless tiers are reversed.
	Tier int
	// PackedFmin/PackedFmax is the extent the label occupies after
	// inflation to fit its text, in sequence coordinates. Signpost
	// boxes are drawn around this extent.
	PackedFmin float64
	PackedFmax float64
	// FontHeightFrac is the solved font height as a fraction of the
	// drawing radius.
	FontHeightFrac float64
}

// Options tunes the packing.
type Options struct {
	// HeightFrac is the track's radial height fraction.
	HeightFrac float64
	// RadialFrac locates the band for circumference arithmetic,
	// normally the track's outer edge.
	RadialFrac float64
	// CharAspect is the assumed average glyph width/height ratio.
	// Zero means 0.6.
	CharAspect float64
	// TierGapFrac is the fraction of each tier's band reserved as
	// spacing rather than glyph height. Zero means 0.2.
	TierGapFrac float64
}

func (o Options) charAspect() float64 {
	if o.CharAspect <= 0 {
		return 0.6
	}
	return o.CharAspect
}

func (o Options) tierGapFrac() float64 {
	if o.TierGapFrac <= 0 {
		return 0.2
	}
	return o.TierGapFrac
}

// Packing is the result: labels grouped by tier, in packed order.
type Packing struct {
	Tiers [][]*Label
	// FTC is the chosen font-tier-count divisor.
	FTC float64
	// FontHeightFrac is the solved font height as a fraction of the
	// drawing radius, identical across labels.
	FontHeightFrac float64
}

// TierCount returns the number of tiers, always at least one.
func (p *Packing) TierCount() int { return len(p.Tiers) }

// Reverse flips the tier order so tier 0 becomes the outermost. Used
// when the track stacks against a reference track on its inner side,
// keeping visual adjacency aligned with logical adjacency.
func (p *Packing) Reverse() {
	n := len(p.Tiers)
	for i := 0; i < n/2; i++ {
		p.Tiers[i], p.Tiers[n-1-i] = p.Tiers[n-1-i], p.Tiers[i]
	}
	for i, tier := range p.Tiers {
		for _, l := range tier {
			l.Tier = i
		}
	}
}

// Pack assigns every label a tier, a packed extent and a font height.
// Zero labels yield a single empty tier.
func Pack(c coord.Circle, labels []*Label, opts Options) *Packing {
	if len(labels) == 0 {
		return &Packing{Tiers: [][]*Label{{}}, FTC: 1, FontHeightFrac: opts.HeightFrac}
	}

	// Tier count at the largest candidate font bounds the search: any
	// smaller font can only shrink intervals, and a candidate FTC
	// beyond that bound could never beat it on TC(FTC) - FTC.
	ceiling := float64(packAtFTC(c, labels, opts, 1))

	bestFTC := 0.0
	bestScore := math.Inf(1)
	for ftc := 1.0; ftc <= ceiling; ftc += 0.5 {
		tc := packAtFTC(c, labels, opts, ftc)
		if float64(tc) > ftc {
			continue
		}
		if score := float64(tc) - ftc; score < bestScore {
			bestFTC, bestScore = ftc, score
		}
	}
	if bestFTC == 0 {
		// The scan is not monotone, but the ceiling itself always
		// satisfies TC <= FTC; fall back to it if nothing else did.
		bestFTC = ceiling
	}

	// Re-run the winning candidate to materialize assignments.
	fontFrac := opts.HeightFrac / bestFTC * (1 - opts.tierGapFrac())
	tiers := packTiers(c, labels, opts, fontFrac)
	for i, tier := range tiers {
		for _, l := range tier {
			l.Tier = i
			l.FontHeightFrac = fontFrac
		}
	}
	return &Packing{Tiers: tiers, FTC: bestFTC, FontHeightFrac: fontFrac}
}

func packAtFTC(c coord.Circle, labels []*Label, opts Options, ftc float64) int {
	fontFrac := opts.HeightFrac / ftc * (1 - opts.tierGapFrac())
	return len(packTiers(c, labels, opts, fontFrac))
}

type interval struct {
	lo, hi float64
	label  *Label
}

// packTiers inflates each label to its text width at the given font
// height and first-fit packs the intervals into tiers.
func packTiers(c coord.Circle, labels []*Label, opts Options, fontFrac float64) [][]*Label {
	bpPerChar := charWidthBp(c, opts, fontFrac)
	tr := c.Transform
	if tr == nil {
		tr = coord.Identity{}
	}

	ivs := make([]interval, 0, len(labels))
	for _, l := range labels {
		lo, hi := tr.Apply(l.Fmin), tr.Apply(l.Fmax)
		need := float64(len(l.Text)) * bpPerChar
		if hi-lo < need {
			mid := tr.Apply(l.Position)
			lo, hi = mid-need/2, mid+need/2
		}
		l.PackedFmin = tr.Invert(lo)
		l.PackedFmax = tr.Invert(hi)
		ivs = append(ivs, interval{lo: lo, hi: hi, label: l})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })

	var tiers [][]*Label
	var tierEnd []float64
next:
	for _, iv := range ivs {
		for t := range tiers {
			if iv.lo >= tierEnd[t] {
				tiers[t] = append(tiers[t], iv.label)
				tierEnd[t] = iv.hi
				continue next
			}
		}
		tiers = append(tiers, []*Label{iv.label})
		tierEnd = append(tierEnd, iv.hi)
	}
	return tiers
}

// charWidthBp converts the average glyph width at the candidate font
// into base pairs of transformed sequence, using the circumference of
// the band the labels sit on.
func charWidthBp(c coord.Circle, opts Options, fontFrac float64) float64 {
	circumference := 2 * math.Pi * opts.RadialFrac * c.Radius
	if circumference <= 0 {
		return 0
	}
	charPx := opts.charAspect() * fontFrac * c.Radius
	return charPx / circumference * c.TransformedLength()
}
