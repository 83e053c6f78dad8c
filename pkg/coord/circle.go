package coord

import (
	"fmt"
	"math"
)

// Quadrant identifies one 90° sector of the circle, used to decide which
// way text is anchored relative to its spoke.
type Quadrant int

const (
	TopRight Quadrant = iota
	BottomRight
	BottomLeft
	TopLeft
)

func (q Quadrant) String() string {
	switch q {
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case TopLeft:
		return "top-left"
	}
	return fmt.Sprintf("Quadrant(%d)", int(q))
}

// strokeBandTarget is the radial band height, in canvas units, at which a
// stroke renders at exactly its nominal width. Thinner bands get
// proportionally thinner strokes, thicker bands thicker ones, so stroke
// weight stays visually consistent regardless of zoom or track thickness.
const strokeBandTarget = 40.0

// Circle converts sequence positions to angles and Cartesian points on
// the drawing circle. Angle 0 is at twelve o'clock and angles increase
// clockwise. A Circle is an immutable value; scoped overrides of the
// transform are made on copies (see WithTransform).
type Circle struct {
	// Length is the total sequence length L in base pairs.
	Length float64
	// Radius is the fixed drawing radius in canvas units; radial
	// fraction 1 lands on this circle, fraction 0 at the center.
	Radius float64
	// Pad is the canvas padding around the drawing circle.
	Pad float64
	// Rotation is an offset in degrees added to every angle.
	Rotation float64
	// Correction is an additional per-render angular correction in
	// degrees (origin adjustment for origin-spanning displays).
	Correction float64
	// Transform rescales sequence positions before they become angles.
	Transform Transform
}

// WithTransform returns a copy of the circle using the given transform.
// Pass Identity{} to opt a drawing call out of scaling.
func (c Circle) WithTransform(t Transform) Circle {
	c.Transform = t
	return c
}

func (c Circle) transform() Transform {
	if c.Transform == nil {
		return Identity{}
	}
	return c.Transform
}

// Degrees maps a sequence position to an angle in [0, 360).
func (c Circle) Degrees(coord float64) float64 {
	deg := (c.transform().Apply(coord)/c.Length)*360 + c.Rotation + c.Correction
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// XY maps a sequence position and a radial fraction in [0,1] to a
// Cartesian point on the canvas. The circle's center sits at
// (Pad+Radius, Pad+Radius); y grows downward, as on an SVG canvas.
func (c Circle) XY(coord, radialFrac float64) (x, y float64) {
	return c.PolarXY(c.Degrees(coord), radialFrac)
}

// PolarXY maps an angle in degrees and a radial fraction to a Cartesian
// point on the canvas.
func (c Circle) PolarXY(deg, radialFrac float64) (x, y float64) {
	rad := deg * math.Pi / 180
	r := radialFrac * c.Radius
	cx, cy := c.Center()
	return cx + r*math.Sin(rad), cy - r*math.Cos(rad)
}

// Center returns the center point of the drawing circle.
func (c Circle) Center() (x, y float64) {
	return c.Pad + c.Radius, c.Pad + c.Radius
}

// Size returns the width and height of the square canvas that encloses
// the circle, 2*(Radius+Pad).
func (c Circle) Size() float64 {
	return 2 * (c.Radius + c.Pad)
}

// QuadrantOf returns the quadrant a sequence position falls into.
func (c Circle) QuadrantOf(coord float64) Quadrant {
	return Quadrant(int(c.Degrees(coord)/90)) % 4
}

// TransformedLength returns the extent of the transformed coordinate
// space in base pairs.
func (c Circle) TransformedLength() float64 {
	return TransformedLength(c.transform(), c.Length)
}

// StrokeWidth scales a nominal stroke width by the height of the radial
// band it is drawn in: a track of height heightFrac split into tierCount
// tiers occupies (heightFrac/tierCount)*Radius canvas units per tier, and
// the stroke scales linearly with that band relative to a fixed target.
// A negative result can only come from a negative argument and is a
// programming error.
func (c Circle) StrokeWidth(heightFrac float64, tierCount int, nominal float64) float64 {
	if tierCount < 1 {
		tierCount = 1
	}
	band := heightFrac / float64(tierCount) * c.Radius
	w := nominal * band / strokeBandTarget
	if w < 0 {
		panic(fmt.Sprintf("coord: negative stroke width %g (heightFrac=%g nominal=%g)", w, heightFrac, nominal))
	}
	return w
}
