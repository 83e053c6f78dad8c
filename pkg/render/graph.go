package render

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/graphdata"
	"github.com/rajaldebnath/circleator/pkg/render/canvas"
	"github.com/rajaldebnath/circleator/pkg/track"
)

const defaultWindowSize = 5000

// graphRange holds the resolved value range and baseline of one graph
// render, plus whether any drawn value had to be clipped into it.
type graphRange struct {
	min, max float64
	baseline float64
	clipped  bool
}

// frac maps a value to a radial fraction within [start, end]. Values
// outside the range are clipped and flagged. direction "in" puts the
// minimum at the outer edge.
func (g *graphRange) frac(v, start, end float64, inward bool) float64 {
	if v < g.min {
		v, g.clipped = g.min, true
	}
	if v > g.max {
		v, g.clipped = g.max, true
	}
	rel := 0.5
	if g.max > g.min {
		rel = (v - g.min) / (g.max - g.min)
	}
	if inward {
		return end - rel*(end-start)
	}
	return start + rel*(end-start)
}

func (r *Renderer) drawGraph(t *track.Track, start, end float64) error {
	name := t.Options.String("graph-function", "")
	if name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "track %s: graph track needs graph-function", t.Name)
	}
	fn, err := graphdata.Lookup(name)
	if err != nil {
		return err
	}
	window := t.Options.Int("window-size", defaultWindowSize)
	step := t.Options.Int("window-step", 0)
	rows, err := fn.Values(r.seq, window, step)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		r.logger.Warnf("track %s: graph function %s produced no windows", t.Name, name)
		return nil
	}

	g, err := resolveRange(t, fn, rows, r.logger)
	if err != nil {
		return err
	}
	inward := t.Options.String("graph-direction", "out") == "in"

	kind := t.Options.String("graph-type", "bar")
	switch kind {
	case "bar":
		r.graphBars(t, g, rows, start, end, inward)
	case "line":
		r.graphLine(t, g, rows, start, end, inward)
	case "heat-map":
		return r.graphHeat(t, g, rows, start, end)
	default:
		return errors.New(errors.ErrCodeUnknownGlyph, "track %s: unknown graph type %q", t.Name, kind)
	}

	if t.Options.Bool("ref-circles", false) {
		r.refCircles(t, g, rows, start, end, inward)
	}
	return nil
}

// resolveRange turns the graph-min/graph-max/graph-baseline options
// into numbers. Each accepts a literal or one of the symbols
// range-min, range-max, data-min, data-max, data-avg; symbols resolve
// from the value function's declared domain and the observed data. An
// out-of-range baseline is clamped with a warning.
func resolveRange(t *track.Track, fn graphdata.Func, rows []graphdata.Row, logger *log.Logger) (*graphRange, error) {
	dmin, dmax, davg := dataStats(rows)
	rmin, rmax, hasDomain := fn.Domain()
	if !hasDomain {
		rmin, rmax = dmin, dmax
	}

	resolve := func(opt, def string) (float64, error) {
		s := t.Options.String(opt, def)
		switch s {
		case "range-min":
			return rmin, nil
		case "range-max":
			return rmax, nil
		case "data-min":
			return dmin, nil
		case "data-max":
			return dmax, nil
		case "data-avg":
			return davg, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidGraphRange,
				"track %s: %s: %q is neither a number nor a range symbol", t.Name, opt, s)
		}
		return v, nil
	}

	min, err := resolve("graph-min", "range-min")
	if err != nil {
		return nil, err
	}
	max, err := resolve("graph-max", "range-max")
	if err != nil {
		return nil, err
	}
	if min >= max {
		return nil, errors.New(errors.ErrCodeInvalidGraphRange,
			"track %s: graph range [%g,%g] is empty", t.Name, min, max)
	}

	base, err := resolve("graph-baseline", fmt.Sprint(min))
	if err != nil {
		return nil, err
	}
	if base < min || base > max {
		clamped := base
		if clamped < min {
			clamped = min
		}
		if clamped > max {
			clamped = max
		}
		logger.Warnf("track %s: graph baseline %g outside [%g,%g], clamping to %g",
			t.Name, base, min, max, clamped)
		base = clamped
	}
	return &graphRange{min: min, max: max, baseline: base}, nil
}

func dataStats(rows []graphdata.Row) (min, max, avg float64) {
	first := true
	sum, n := 0.0, 0
	for _, row := range rows {
		for _, v := range row.Value.Parts() {
			if first || v < min {
				min = v
			}
			if first || v > max {
				max = v
			}
			first = false
			sum += v
			n++
		}
	}
	if n > 0 {
		avg = sum / float64(n)
	}
	return min, max, avg
}

func (r *Renderer) graphBars(t *track.Track, g *graphRange, rows []graphdata.Row, start, end float64, inward bool) {
	colors := t.Options.Strings("colors")
	single := t.Options.String("color", defaultFill)
	baseFrac := g.frac(g.baseline, start, end, inward)

	for _, row := range rows {
		fmin, fmax := float64(row.Fmin), float64(row.Fmax)
		if !row.Value.IsStacked() {
			r.bar(fmin, fmax, baseFrac, g.frac(row.Value.Scalar(), start, end, inward), single)
			continue
		}
		// Stacked series share the baseline and are drawn largest
		// first so the smaller bars land on top.
		parts := row.Value.Parts()
		order := make([]int, len(parts))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return parts[order[a]] > parts[order[b]] })
		for _, idx := range order {
			r.bar(fmin, fmax, baseFrac, g.frac(parts[idx], start, end, inward), seriesColor(colors, idx, single))
		}
	}
}

func (r *Renderer) bar(fmin, fmax, fromFrac, toFrac float64, color string) {
	lo, hi := fromFrac, toFrac
	if lo > hi {
		lo, hi = hi, lo
	}
	r.curvedRect(fmin, fmax, lo, hi, canvas.Style{Fill: color})
}

func seriesColor(colors []string, idx int, fallback string) string {
	if idx < len(colors) {
		return colors[idx]
	}
	return fallback
}

func (r *Renderer) graphLine(t *track.Track, g *graphRange, rows []graphdata.Row, start, end float64, inward bool) {
	st := canvas.Style{
		Fill:        "none",
		Stroke:      t.Options.String("color", defaultStroke),
		StrokeWidth: r.circle.StrokeWidth(end-start, 1, t.Options.Float("stroke-width", defaultLineWidth)),
	}
	r.polyline(rows, func(row graphdata.Row) float64 {
		return g.frac(row.Value.Scalar(), start, end, inward)
	}, st)

	// Confidence bounds, when present, are traced as dashed lines.
	if rows[0].ConfLo != nil && rows[0].ConfHi != nil {
		dashed := st
		dashed.DashArray = "4 2"
		r.polyline(rows, func(row graphdata.Row) float64 {
			if row.ConfLo == nil {
				return g.frac(row.Value.Scalar(), start, end, inward)
			}
			return g.frac(*row.ConfLo, start, end, inward)
		}, dashed)
		r.polyline(rows, func(row graphdata.Row) float64 {
			if row.ConfHi == nil {
				return g.frac(row.Value.Scalar(), start, end, inward)
			}
			return g.frac(*row.ConfHi, start, end, inward)
		}, dashed)
	}
}

func (r *Renderer) polyline(rows []graphdata.Row, frac func(graphdata.Row) float64, st canvas.Style) {
	var p canvas.PathBuilder
	for i, row := range rows {
		mid := (float64(row.Fmin) + float64(row.Fmax)) / 2
		x, y := r.circle.XY(mid, frac(row))
		if i == 0 {
			p.Move(x, y)
		} else {
			p.Line(x, y)
		}
	}
	r.canvas.Path(p.String(), st)
}

// graphHeat fills the whole band per window with a color interpolated
// across [min, max]. The baseline is ignored; min/max/avg reference
// marks are suppressed whenever a value was clipped, because they
// would misstate the data.
func (r *Renderer) graphHeat(t *track.Track, g *graphRange, rows []graphdata.Row, start, end float64) error {
	lo, err := parseHexColor(t.Options.String("min-color", "#ffffff"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %s: min-color", t.Name)
	}
	hi, err := parseHexColor(t.Options.String("max-color", "#ff0000"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %s: max-color", t.Name)
	}

	for _, row := range rows {
		v := row.Value.Scalar()
		if v < g.min {
			v, g.clipped = g.min, true
		}
		if v > g.max {
			v, g.clipped = g.max, true
		}
		rel := (v - g.min) / (g.max - g.min)
		r.curvedRect(float64(row.Fmin), float64(row.Fmax), start, end,
			canvas.Style{Fill: lerpColor(lo, hi, rel)})
	}

	if t.Options.Bool("ref-circles", false) && !g.clipped {
		r.refCircles(t, g, rows, start, end, false)
	}
	return nil
}

// refCircles draws dashed full circles at the radial positions of the
// data minimum, maximum and average.
func (r *Renderer) refCircles(t *track.Track, g *graphRange, rows []graphdata.Row, start, end float64, inward bool) {
	dmin, dmax, davg := dataStats(rows)
	cx, cy := r.circle.Center()
	st := canvas.Style{
		Fill:        "none",
		Stroke:      t.Options.String("ref-color", defaultStroke),
		StrokeWidth: r.circle.StrokeWidth(end-start, 1, defaultLineWidth) / 2,
		DashArray:   "2 2",
	}
	for _, v := range []float64{dmin, dmax, davg} {
		before := g.clipped
		frac := g.frac(v, start, end, inward)
		if g.clipped && !before {
			// The statistic itself lies outside the drawn range; a
			// circle at the clipped position would mislead.
			continue
		}
		r.canvas.Circle(cx, cy, frac*r.circle.Radius, st)
	}
}

type rgb struct{ r, g, b int }

func parseHexColor(s string) (rgb, error) {
	if len(s) != 7 || s[0] != '#' {
		return rgb{}, fmt.Errorf("bad color %q, want #rrggbb", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("bad color %q, want #rrggbb", s)
	}
	return rgb{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, nil
}

func lerpColor(lo, hi rgb, rel float64) string {
	mix := func(a, b int) int { return a + int(rel*float64(b-a)) }
	return fmt.Sprintf("#%02x%02x%02x", mix(lo.r, hi.r), mix(lo.g, hi.g), mix(lo.b, hi.b))
}
