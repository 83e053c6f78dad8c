// Package render walks the expanded track list and turns each track
// into drawing commands: curved geometry for feature bands, packed
// label tiers, statistical graphs and coordinate rulers.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/coord"
	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
	"github.com/rajaldebnath/circleator/pkg/render/canvas"
	"github.com/rajaldebnath/circleator/pkg/track"
)

// Documented option defaults, substituted when a track leaves them out.
const (
	defaultFill      = "#c0c0c0"
	defaultStroke    = "#000000"
	defaultLineWidth = 1.0
)

// Renderer draws tracks onto a canvas. The coordinate circle is an
// immutable value; scoped transform overrides go through withTransform
// and are restored on every exit path.
type Renderer struct {
	canvas *canvas.Canvas
	circle coord.Circle
	seq    *genome.Sequence
	pipe   *track.Pipeline
	logger *log.Logger

	labelSeq int
	markers  map[string]bool
}

// New builds a renderer over an assembled sequence and its pipeline.
func New(c coord.Circle, seq *genome.Sequence, pipe *track.Pipeline, cv *canvas.Canvas, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{
		canvas: cv,
		circle: c,
		seq:    seq,
		pipe:   pipe,
		logger: logger,
	}
}

// Render draws the full track list in order. The list must already be
// loop-expanded.
func (r *Renderer) Render(tracks []*track.Track) error {
	for i, t := range tracks {
		if err := r.renderTrack(i, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTrack(i int, t *track.Track) error {
	start, end := t.StartFrac, t.EndFrac
	if start > end {
		r.logger.Warnf("track %s: start-frac %g > end-frac %g, swapping", trackName(i, t), start, end)
		start, end = end, start
	}

	draw := func() error {
		r.canvas.Group(fmt.Sprintf("track-%d", i+1))
		defer r.canvas.GroupEnd()

		switch t.Glyph {
		case "rectangle":
			return r.drawRectangles(t, start, end)
		case "contigs":
			return r.drawSynthetic(t, genome.TypeContig, start, end)
		case "contig-gaps":
			return r.drawSynthetic(t, genome.TypeContigGap, start, end)
		case "label":
			return r.drawLabels(t, start, end)
		case "graph":
			return r.drawGraph(t, start, end)
		case "ruler":
			return r.drawRuler(t, start, end)
		case "none":
			return nil
		}
		return errors.New(errors.ErrCodeUnknownGlyph, "track %s: unknown glyph %q", trackName(i, t), t.Glyph)
	}

	if !t.Options.Bool("scale", true) {
		return r.withTransform(coord.Identity{}, draw)
	}
	return draw()
}

// withTransform runs fn with the given transform installed, restoring
// the previous one on every exit path.
func (r *Renderer) withTransform(t coord.Transform, fn func() error) error {
	saved := r.circle
	r.circle = r.circle.WithTransform(t)
	defer func() { r.circle = saved }()
	return fn()
}

// checkStrand rejects features whose strand was never determined.
// Drawing such a feature would silently pick an orientation, so it is
// a fatal defect instead.
func checkStrand(f *genome.Feature) error {
	if !f.Strand.Determined() {
		return errors.New(errors.ErrCodeUndefinedStrand,
			"feature %s [%d,%d) has undetermined strand", f.ID, f.Fmin, f.Fmax)
	}
	return nil
}

func (r *Renderer) drawRectangles(t *track.Track, start, end float64) error {
	feats, err := r.pipe.Resolve(t)
	if err != nil {
		return err
	}
	st := canvas.Style{
		Fill:        t.Options.String("color", defaultFill),
		Stroke:      t.Options.String("stroke-color", defaultStroke),
		StrokeWidth: r.circle.StrokeWidth(end-start, 1, t.Options.Float("stroke-width", defaultLineWidth)),
	}
	if op := t.Options.Float("opacity", 0); op > 0 {
		st.FillOpacity = op
	}
	arrows := t.Options.Bool("arrows", false)

	for _, f := range feats {
		if err := checkStrand(f); err != nil {
			return err
		}
		if arrows && f.Strand != genome.None {
			r.curvedArrow(float64(f.Fmin), float64(f.Fmax), start, end, f.Strand == genome.Reverse, st)
			continue
		}
		r.curvedRect(float64(f.Fmin), float64(f.Fmax), start, end, st)
	}
	return nil
}

// drawSynthetic draws the assembler's synthetic features of one type,
// ignoring the track's own feature source.
func (r *Renderer) drawSynthetic(t *track.Track, typ string, start, end float64) error {
	st := canvas.Style{
		Fill:        t.Options.String("color", defaultFill),
		Stroke:      t.Options.String("stroke-color", defaultStroke),
		StrokeWidth: r.circle.StrokeWidth(end-start, 1, t.Options.Float("stroke-width", defaultLineWidth)),
	}
	for _, f := range r.seq.Index.ByType(typ) {
		r.curvedRect(float64(f.Fmin), float64(f.Fmax), start, end, st)
	}
	return nil
}

func trackName(i int, t *track.Track) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
