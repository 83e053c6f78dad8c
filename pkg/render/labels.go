package render

import (
	"fmt"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/coord"
	"github.com/rajaldebnath/circleator/pkg/genome"
	"github.com/rajaldebnath/circleator/pkg/render/canvas"
	"github.com/rajaldebnath/circleator/pkg/render/label"
	"github.com/rajaldebnath/circleator/pkg/track"
)

// drawLabels renders a label track: features become labels (text from
// a tag, falling back to the feature id), the packer assigns tiers and
// a font, and each label is drawn curved, as a spoke, or as a signpost
// box.
func (r *Renderer) drawLabels(t *track.Track, start, end float64) error {
	feats, err := r.pipe.Resolve(t)
	if err != nil {
		return err
	}

	tag := t.Options.String("label-tag", "")
	var labels []*label.Label
	for _, f := range feats {
		text := labelText(f, tag)
		if text == "" {
			continue
		}
		labels = append(labels, &label.Label{
			Text:     text,
			Position: f.Midpoint(),
			Fmin:     float64(f.Fmin),
			Fmax:     float64(f.Fmax),
		})
	}

	pack := label.Pack(r.circle, labels, label.Options{
		HeightFrac: end - start,
		RadialFrac: end,
	})

	if ref := t.Options.String("stack-adjacent", ""); ref != "" {
		refTrack, ok := r.pipe.ByName(ref)
		if !ok {
			r.logger.Warnf("track %s: stack-adjacent names unknown track %q", t.Name, ref)
		} else if end <= refTrack.StartFrac {
			// The reference band sits outside this one; flip the
			// tiers so the outermost tier touches it.
			pack.Reverse()
		}
	}

	kind := t.Options.String("label-type", "curved")
	st := canvas.Style{
		Fill:       t.Options.String("color", defaultStroke),
		FontFamily: t.Options.String("font-family", ""),
	}
	tierCount := pack.TierCount()
	tierH := (end - start) / float64(tierCount)
	fontPx := pack.FontHeightFrac * r.circle.Radius

	for i, tier := range pack.Tiers {
		inner := start + float64(i)*tierH
		outer := inner + tierH
		for _, l := range tier {
			switch kind {
			case "curved":
				r.curvedLabel(l, inner, fontPx, st)
			case "spoke":
				r.spokeLabel(t, l, start, inner, fontPx, st)
			case "signpost":
				r.signpostLabel(t, l, start, inner, outer, fontPx, st)
			default:
				r.logger.Warnf("track %s: unknown label-type %q, drawing curved", t.Name, kind)
				r.curvedLabel(l, inner, fontPx, st)
			}
		}
	}
	return nil
}

func labelText(f *genome.Feature, tag string) string {
	if tag != "" {
		if v, ok := f.Tags.Get(tag); ok {
			return v
		}
		return ""
	}
	return f.ID
}

// curvedLabel binds the text to an arc along the tier's baseline.
func (r *Renderer) curvedLabel(l *label.Label, baseFrac, fontPx float64, st canvas.Style) {
	d := r.baselineArc(l.PackedFmin, l.PackedFmax, baseFrac)
	r.canvas.CurvedText(r.nextLabelID(), d, 0, fontPx, l.Text, st)
}

// spokeLabel anchors horizontal text at the label's position, with the
// anchor side chosen by quadrant so text always reads away from the
// circle, plus a leader line back to the track's inner edge.
func (r *Renderer) spokeLabel(t *track.Track, l *label.Label, trackStart, tierFrac, fontPx float64, st canvas.Style) {
	x, y := r.circle.XY(l.Position, tierFrac)
	anchor := "start"
	switch r.circle.QuadrantOf(l.Position) {
	case coord.BottomLeft, coord.TopLeft:
		anchor = "end"
	}
	r.canvas.Text(x, y, fontPx, anchor, l.Text, st)
	if t.Options.Bool("leader", true) {
		r.leaderLine(l.Position, tierFrac, trackStart, st.Fill)
	}
}

// signpostLabel draws a box around the packed extent with the text
// curved inside it and a leader line down to the track's inner edge.
func (r *Renderer) signpostLabel(t *track.Track, l *label.Label, trackStart, inner, outer, fontPx float64, st canvas.Style) {
	box := canvas.Style{
		Fill:        t.Options.String("signpost-color", defaultFill),
		Stroke:      st.Fill,
		StrokeWidth: r.circle.StrokeWidth(outer-inner, 1, defaultLineWidth),
	}
	r.curvedRect(l.PackedFmin, l.PackedFmax, inner, outer, box)
	d := r.baselineArc(l.PackedFmin, l.PackedFmax, inner+0.25*(outer-inner))
	r.canvas.CurvedText(r.nextLabelID(), d, 0, fontPx, l.Text, st)
	if t.Options.Bool("leader", true) {
		r.leaderLine(l.Position, inner, trackStart, st.Fill)
	}
}

// leaderLine draws the spoke from a label back toward the labeled
// feature, tipped with an arrowhead. Markers are registered in the
// document defs once per color.
func (r *Renderer) leaderLine(pos, labelFrac, featureFrac float64, color string) {
	id := "arrow-" + strings.TrimPrefix(color, "#")
	if r.markers == nil {
		r.markers = make(map[string]bool)
	}
	if !r.markers[id] {
		r.canvas.ArrowMarker(id, color)
		r.markers[id] = true
	}
	r.radialLine(pos, labelFrac, featureFrac, canvas.Style{
		Stroke:      color,
		StrokeWidth: r.circle.StrokeWidth(1, 1, defaultLineWidth),
		MarkerEnd:   id,
	})
}

// baselineArc builds the path data for a text baseline arc between two
// sequence positions.
func (r *Renderer) baselineArc(fmin, fmax, frac float64) string {
	c := r.circle
	x1, y1 := c.XY(fmin, frac)
	x2, y2 := c.XY(fmax, frac)
	var p canvas.PathBuilder
	p.Move(x1, y1)
	p.Arc(frac*c.Radius, r.spanDegrees(fmin, fmax) > 180, true, x2, y2)
	return p.String()
}

func (r *Renderer) nextLabelID() string {
	r.labelSeq++
	return fmt.Sprintf("lbl-%d", r.labelSeq)
}
