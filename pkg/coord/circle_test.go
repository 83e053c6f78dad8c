package coord

import (
	"math"
	"testing"
)

func testCircle() Circle {
	return Circle{Length: 3600, Radius: 400, Pad: 50}
}

func TestDegreesRange(t *testing.T) {
	circles := []Circle{
		testCircle(),
		{Length: 3600, Radius: 400, Pad: 50, Rotation: 123.4},
		{Length: 3600, Radius: 400, Pad: 50, Rotation: -720, Correction: 17},
	}
	for _, c := range circles {
		for x := 0.0; x < c.Length; x += 11 {
			deg := c.Degrees(x)
			if deg < 0 || deg >= 360 {
				t.Fatalf("Degrees(%g) = %g out of [0,360)", x, deg)
			}
		}
	}
}

func TestDegreesProportional(t *testing.T) {
	c := testCircle()
	// 3600 bp circle: one bp per tenth of a degree.
	tests := []struct {
		coord float64
		want  float64
	}{
		{0, 0},
		{900, 90},
		{1800, 180},
		{2700, 270},
	}
	for _, tt := range tests {
		if got := c.Degrees(tt.coord); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Degrees(%g) = %g, want %g", tt.coord, got, tt.want)
		}
	}
}

func TestQuadrantPartition(t *testing.T) {
	c := testCircle()
	// Quadrants partition [0,360) into four contiguous 90° ranges.
	counts := map[Quadrant]int{}
	prev := TopRight
	for deg := 0.0; deg < 360; deg += 0.25 {
		coord := deg / 360 * c.Length
		q := c.QuadrantOf(coord)
		if q < TopRight || q > TopLeft {
			t.Fatalf("QuadrantOf(%g) = %d out of range", coord, q)
		}
		if q < prev {
			t.Fatalf("quadrants not contiguous: %v after %v at %g°", q, prev, deg)
		}
		prev = q
		counts[q]++
	}
	for q := TopRight; q <= TopLeft; q++ {
		if counts[q] != 360 { // 90° / 0.25° steps
			t.Errorf("quadrant %v covers %g°, want 90°", q, float64(counts[q])*0.25)
		}
	}
}

func TestXY(t *testing.T) {
	c := testCircle()
	cx, cy := c.Center()

	// Radial fraction 0 is the center regardless of angle.
	x, y := c.XY(1234, 0)
	if math.Abs(x-cx) > 1e-9 || math.Abs(y-cy) > 1e-9 {
		t.Errorf("XY(_, 0) = (%g,%g), want center (%g,%g)", x, y, cx, cy)
	}

	// Coordinate 0 at full radius is straight up from the center.
	x, y = c.XY(0, 1)
	if math.Abs(x-cx) > 1e-9 || math.Abs(y-(cy-c.Radius)) > 1e-9 {
		t.Errorf("XY(0, 1) = (%g,%g), want (%g,%g)", x, y, cx, cy-c.Radius)
	}

	// Quarter turn lands to the right of the center.
	x, y = c.XY(c.Length/4, 1)
	if math.Abs(x-(cx+c.Radius)) > 1e-9 || math.Abs(y-cy) > 1e-9 {
		t.Errorf("XY(L/4, 1) = (%g,%g), want (%g,%g)", x, y, cx+c.Radius, cy)
	}
}

func TestXYRespectsTransform(t *testing.T) {
	p, err := NewPiecewise(3600, []Segment{{Fmin: 0, Fmax: 900, Scale: 2}})
	if err != nil {
		t.Fatalf("NewPiecewise: %v", err)
	}
	c := testCircle().WithTransform(p)
	// 900 maps to 1800 under the transform, a half turn.
	if got := c.Degrees(900); math.Abs(got-180) > 1e-9 {
		t.Errorf("Degrees(900) with doubled head segment = %g, want 180", got)
	}
	// Opting out of scaling restores the plain mapping.
	if got := c.WithTransform(Identity{}).Degrees(900); math.Abs(got-90) > 1e-9 {
		t.Errorf("Degrees(900) with identity = %g, want 90", got)
	}
}

func TestSize(t *testing.T) {
	c := testCircle()
	if got := c.Size(); got != 900 {
		t.Errorf("Size() = %g, want 900", got)
	}
}

func TestStrokeWidth(t *testing.T) {
	c := testCircle()
	// A band exactly at the target renders at nominal width.
	w := c.StrokeWidth(strokeBandTarget/c.Radius, 1, 2)
	if math.Abs(w-2) > 1e-9 {
		t.Errorf("StrokeWidth at target band = %g, want 2", w)
	}
	// Splitting the band into tiers thins the stroke proportionally.
	half := c.StrokeWidth(strokeBandTarget/c.Radius, 2, 2)
	if math.Abs(half-1) > 1e-9 {
		t.Errorf("StrokeWidth with 2 tiers = %g, want 1", half)
	}
}

func TestStrokeWidthPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative stroke width")
		}
	}()
	testCircle().StrokeWidth(-0.1, 1, 2)
}
