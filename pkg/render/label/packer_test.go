package label

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/rajaldebnath/circleator/pkg/coord"
)

func testCircle() coord.Circle {
	return coord.Circle{Length: 10000, Radius: 600, Pad: 20}
}

func testOptions() Options {
	return Options{HeightFrac: 0.1, RadialFrac: 0.9}
}

func pointLabel(text string, pos float64) *Label {
	return &Label{Text: text, Position: pos, Fmin: pos, Fmax: pos}
}

func assertNoTierOverlap(t *testing.T, p *Packing) {
	t.Helper()
	for ti, tier := range p.Tiers {
		sorted := append([]*Label(nil), tier...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].PackedFmin < sorted[j].PackedFmin })
		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if cur.PackedFmin < prev.PackedFmax-1e-9 {
				t.Errorf("tier %d: %q [%f,%f] overlaps %q [%f,%f]",
					ti, prev.Text, prev.PackedFmin, prev.PackedFmax,
					cur.Text, cur.PackedFmin, cur.PackedFmax)
			}
		}
	}
}

func TestPackZeroLabels(t *testing.T) {
	p := Pack(testCircle(), nil, testOptions())
	if p.TierCount() != 1 {
		t.Fatalf("tier count = %d, want 1", p.TierCount())
	}
	if len(p.Tiers[0]) != 0 {
		t.Errorf("lone tier should be empty, has %d labels", len(p.Tiers[0]))
	}
}

func TestPackSingleLabel(t *testing.T) {
	l := pointLabel("dnaA", 1000)
	p := Pack(testCircle(), []*Label{l}, testOptions())
	if p.TierCount() != 1 {
		t.Errorf("tier count = %d, want 1", p.TierCount())
	}
	if l.Tier != 0 {
		t.Errorf("tier = %d, want 0", l.Tier)
	}
	if l.PackedFmax <= l.PackedFmin {
		t.Errorf("packed extent [%f,%f] not inflated", l.PackedFmin, l.PackedFmax)
	}
	if l.FontHeightFrac <= 0 {
		t.Error("font height not assigned")
	}
}

func TestPackSpreadLabelsStayOnOneTier(t *testing.T) {
	var labels []*Label
	for i := 0; i < 8; i++ {
		labels = append(labels, pointLabel("g", float64(i)*1250+100))
	}
	p := Pack(testCircle(), labels, testOptions())
	if p.TierCount() != 1 {
		t.Errorf("tier count = %d, want 1 for well-separated short labels", p.TierCount())
	}
	assertNoTierOverlap(t, p)
}

func TestPackClusteredLabels(t *testing.T) {
	var labels []*Label
	for i := 0; i < 10; i++ {
		labels = append(labels, pointLabel(fmt.Sprintf("cluster-gene-%d", i), 5000+float64(i)*10))
	}
	p := Pack(testCircle(), labels, testOptions())
	if p.TierCount() < 2 {
		t.Errorf("tier count = %d, want several for colliding labels", p.TierCount())
	}
	assertNoTierOverlap(t, p)

	total := 0
	for _, tier := range p.Tiers {
		total += len(tier)
	}
	if total != len(labels) {
		t.Errorf("packed %d labels, want %d", total, len(labels))
	}
}

func TestPackTierCountBound(t *testing.T) {
	c, opts := testCircle(), testOptions()
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		var labels []*Label
		n := 1 + rng.Intn(30)
		for i := 0; i < n; i++ {
			labels = append(labels, pointLabel(fmt.Sprintf("lbl%d", i), rng.Float64()*c.Length))
		}
		conservative := packAtFTC(c, labels, opts, 1)
		p := Pack(c, labels, opts)
		if p.TierCount() > conservative {
			t.Fatalf("trial %d: %d tiers exceeds the largest-font bound %d",
				trial, p.TierCount(), conservative)
		}
		if float64(p.TierCount()) > p.FTC {
			t.Fatalf("trial %d: TC %d > FTC %g", trial, p.TierCount(), p.FTC)
		}
		assertNoTierOverlap(t, p)
	}
}

func TestPackHonorsTransform(t *testing.T) {
	tr, err := coord.NewPiecewise(10000, []coord.Segment{{Fmin: 1000, Fmax: 2000, Scale: 2}})
	if err != nil {
		t.Fatal(err)
	}
	c := testCircle().WithTransform(tr)
	l := pointLabel("ori", 1500)
	Pack(c, []*Label{l}, testOptions())
	// Packed bounds come back through the inverse transform, so they
	// bracket the anchor in sequence coordinates.
	if l.PackedFmin >= 1500 || l.PackedFmax <= 1500 {
		t.Errorf("packed extent [%f,%f] does not bracket anchor", l.PackedFmin, l.PackedFmax)
	}
}

func TestPackingReverse(t *testing.T) {
	var labels []*Label
	for i := 0; i < 10; i++ {
		labels = append(labels, pointLabel(fmt.Sprintf("cluster-gene-%d", i), 5000+float64(i)*10))
	}
	p := Pack(testCircle(), labels, testOptions())
	if p.TierCount() < 2 {
		t.Skip("need at least two tiers to observe reversal")
	}
	firstBefore := p.Tiers[0]
	p.Reverse()
	lastAfter := p.Tiers[p.TierCount()-1]
	if &firstBefore[0] != &lastAfter[0] {
		t.Error("reversal did not move the first tier to the end")
	}
	for i, tier := range p.Tiers {
		for _, l := range tier {
			if l.Tier != i {
				t.Errorf("label %q has tier %d, stored in tier %d", l.Text, l.Tier, i)
			}
		}
	}
}
