package render

import (
	"math"

	"github.com/rajaldebnath/circleator/pkg/render/canvas"
)

// spanDegrees returns the transformed angular span of [fmin, fmax] in
// degrees, before any normalization.
func (r *Renderer) spanDegrees(fmin, fmax float64) float64 {
	c := r.circle
	tr := c.Transform
	if tr == nil {
		return (fmax - fmin) / c.Length * 360
	}
	return (tr.Apply(fmax) - tr.Apply(fmin)) / c.Length * 360
}

// curvedRect draws a filled band between two radii over [fmin, fmax].
// A span covering the whole sequence cannot be expressed as a single
// arc command, so it is drawn as two concentric circle subpaths with
// the region between them filled (even-odd rule). Full-circle
// detection uses raw sequence coordinates, independent of any scaling
// transform.
func (r *Renderer) curvedRect(fmin, fmax, innerFrac, outerFrac float64, st canvas.Style) {
	c := r.circle
	if fmax-fmin >= c.Length {
		r.donut(innerFrac, outerFrac, st)
		return
	}

	span := r.spanDegrees(fmin, fmax)
	large := span > 180
	outerR := outerFrac * c.Radius
	innerR := innerFrac * c.Radius

	ox1, oy1 := c.XY(fmin, outerFrac)
	ox2, oy2 := c.XY(fmax, outerFrac)
	ix1, iy1 := c.XY(fmin, innerFrac)
	ix2, iy2 := c.XY(fmax, innerFrac)

	var p canvas.PathBuilder
	p.Move(ox1, oy1)
	p.Arc(outerR, large, true, ox2, oy2)
	p.Line(ix2, iy2)
	if innerR > 0 {
		p.Arc(innerR, large, false, ix1, iy1)
	} else {
		p.Line(ix1, iy1)
	}
	p.Close()
	r.canvas.Path(p.String(), st)
}

func (r *Renderer) donut(innerFrac, outerFrac float64, st canvas.Style) {
	c := r.circle
	cx, cy := c.Center()
	var p canvas.PathBuilder
	p.CirclePath(cx, cy, outerFrac*c.Radius)
	if innerFrac > 0 {
		p.CirclePath(cx, cy, innerFrac*c.Radius)
		st.FillRule = "evenodd"
	}
	r.canvas.Path(p.String(), st)
}

// curvedArrow draws a band ending in a pointed tip at the fmax end, or
// the fmin end when reverse is set. The tip's angular size matches the
// band height and never exceeds half the span.
func (r *Renderer) curvedArrow(fmin, fmax, innerFrac, outerFrac float64, reverse bool, st canvas.Style) {
	c := r.circle
	if fmax-fmin >= c.Length {
		r.donut(innerFrac, outerFrac, st)
		return
	}

	span := r.spanDegrees(fmin, fmax)
	midFrac := (innerFrac + outerFrac) / 2
	tip := tipDegrees(innerFrac, outerFrac, midFrac)
	if tip > span/2 {
		tip = span / 2
	}

	startDeg := c.Degrees(fmin)
	endDeg := c.Degrees(fmax)
	outerR := outerFrac * c.Radius
	innerR := innerFrac * c.Radius
	bodyLarge := span-tip > 180

	var baseDeg float64
	if reverse {
		baseDeg = startDeg + tip
	} else {
		baseDeg = endDeg - tip
	}

	var p canvas.PathBuilder
	if reverse {
		tx, ty := c.PolarXY(startDeg, midFrac)
		obx, oby := c.PolarXY(baseDeg, outerFrac)
		oex, oey := c.PolarXY(endDeg, outerFrac)
		iex, iey := c.PolarXY(endDeg, innerFrac)
		ibx, iby := c.PolarXY(baseDeg, innerFrac)
		p.Move(tx, ty)
		p.Line(obx, oby)
		p.Arc(outerR, bodyLarge, true, oex, oey)
		p.Line(iex, iey)
		p.Arc(innerR, bodyLarge, false, ibx, iby)
		p.Close()
	} else {
		osx, osy := c.PolarXY(startDeg, outerFrac)
		obx, oby := c.PolarXY(baseDeg, outerFrac)
		tx, ty := c.PolarXY(endDeg, midFrac)
		ibx, iby := c.PolarXY(baseDeg, innerFrac)
		isx, isy := c.PolarXY(startDeg, innerFrac)
		p.Move(osx, osy)
		p.Arc(outerR, bodyLarge, true, obx, oby)
		p.Line(tx, ty)
		p.Line(ibx, iby)
		p.Arc(innerR, bodyLarge, false, isx, isy)
		p.Close()
	}
	r.canvas.Path(p.String(), st)
}

// tipDegrees sizes an arrow tip: the band height converted to degrees
// of arc at the band's midline.
func tipDegrees(innerFrac, outerFrac, midFrac float64) float64 {
	if midFrac <= 0 {
		return 0
	}
	// band height / midline circumference, both in radius units.
	return (outerFrac - innerFrac) / (2 * math.Pi * midFrac) * 360
}

// curvedLine strokes an arc at a single radial fraction.
func (r *Renderer) curvedLine(fmin, fmax, frac float64, st canvas.Style) {
	c := r.circle
	span := r.spanDegrees(fmin, fmax)
	x1, y1 := c.XY(fmin, frac)
	x2, y2 := c.XY(fmax, frac)
	var p canvas.PathBuilder
	p.Move(x1, y1)
	p.Arc(frac*c.Radius, span > 180, true, x2, y2)
	st.Fill = "none"
	r.canvas.Path(p.String(), st)
}

// radialLine strokes a spoke between two radial fractions at one
// sequence position.
func (r *Renderer) radialLine(pos, innerFrac, outerFrac float64, st canvas.Style) {
	c := r.circle
	x1, y1 := c.XY(pos, innerFrac)
	x2, y2 := c.XY(pos, outerFrac)
	r.canvas.Line(x1, y1, x2, y2, st)
}
