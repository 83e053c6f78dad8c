package render

import (
	"fmt"
	"math"

	"github.com/rajaldebnath/circleator/pkg/coord"
	"github.com/rajaldebnath/circleator/pkg/render/canvas"
	"github.com/rajaldebnath/circleator/pkg/track"
)

// drawRuler renders the coordinate axis: a circle at the track's
// midline, tick marks at a regular interval, and coordinate labels
// outside the ticks.
func (r *Renderer) drawRuler(t *track.Track, start, end float64) error {
	c := r.circle
	interval := t.Options.Int("tick-interval", 0)
	if interval <= 0 {
		interval = niceInterval(c.Length)
	}

	st := canvas.Style{
		Fill:        "none",
		Stroke:      t.Options.String("color", defaultStroke),
		StrokeWidth: c.StrokeWidth(end-start, 1, t.Options.Float("stroke-width", defaultLineWidth)),
	}
	mid := (start + end) / 2
	cx, cy := c.Center()
	r.canvas.Circle(cx, cy, mid*c.Radius, st)

	labels := t.Options.Bool("tick-labels", true)
	fontPx := t.Options.Float("font-height-frac", 0.02) * c.Radius
	textStyle := canvas.Style{Fill: st.Stroke, FontFamily: t.Options.String("font-family", "")}

	for pos := 0; float64(pos) < c.Length; pos += interval {
		p := float64(pos)
		r.radialLine(p, start, end, st)
		if !labels {
			continue
		}
		x, y := c.XY(p, end+0.01)
		anchor := "start"
		switch c.QuadrantOf(p) {
		case coord.BottomLeft, coord.TopLeft:
			anchor = "end"
		}
		r.canvas.Text(x, y, fontPx, anchor, formatCoord(pos), textStyle)
	}
	return nil
}

// niceInterval picks a 1/2/5 multiple of a power of ten yielding
// roughly 40 ticks around the circle.
func niceInterval(length float64) int {
	raw := length / 40
	if raw < 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return int(m * mag)
		}
	}
	return int(10 * mag)
}

func formatCoord(pos int) string {
	switch {
	case pos == 0:
		return "0"
	case pos%1000000 == 0:
		return fmt.Sprintf("%dMb", pos/1000000)
	case pos%1000 == 0:
		return fmt.Sprintf("%dkb", pos/1000)
	}
	return fmt.Sprintf("%d", pos)
}
