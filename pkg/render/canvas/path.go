package canvas

import (
	"fmt"
	"strings"
)

// PathBuilder assembles SVG path data from absolute commands.
type PathBuilder struct {
	b strings.Builder
}

func (p *PathBuilder) sep() {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
}

// Move starts a new subpath at (x, y).
func (p *PathBuilder) Move(x, y float64) *PathBuilder {
	p.sep()
	fmt.Fprintf(&p.b, "M %.2f %.2f", x, y)
	return p
}

// Line draws a straight segment to (x, y).
func (p *PathBuilder) Line(x, y float64) *PathBuilder {
	p.sep()
	fmt.Fprintf(&p.b, "L %.2f %.2f", x, y)
	return p
}

// Arc draws an elliptical arc of radius r to (x, y). largeArc selects
// the arc spanning more than 180 degrees; sweep selects the clockwise
// direction.
func (p *PathBuilder) Arc(r float64, largeArc, sweep bool, x, y float64) *PathBuilder {
	p.sep()
	fmt.Fprintf(&p.b, "A %.2f %.2f 0 %d %d %.2f %.2f", r, r, flag(largeArc), flag(sweep), x, y)
	return p
}

// Close closes the current subpath.
func (p *PathBuilder) Close() *PathBuilder {
	p.sep()
	p.b.WriteByte('Z')
	return p
}

// CirclePath appends a full circle as two half arcs, usable inside a
// multi-subpath fill (a single arc command cannot express 360 degrees).
func (p *PathBuilder) CirclePath(cx, cy, r float64) *PathBuilder {
	p.Move(cx, cy-r)
	p.Arc(r, false, true, cx, cy+r)
	p.Arc(r, false, true, cx, cy-r)
	p.Close()
	return p
}

func (p *PathBuilder) String() string {
	return p.b.String()
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
