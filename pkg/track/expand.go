package track

import (
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// GlyphLoop is the expansion-only pseudo-glyph. A loop track carries
// nested tracks and a variable binding; Expand unrolls it before the
// render pass so the renderer iterates a fixed list.
const GlyphLoop = "loop"

// Expand unrolls all loop constructs into a flat, immutable track
// list. Each loop iteration clones the nested tracks with the loop
// variable substituted into names, glyphs and string option values
// (${var} syntax). Loops may nest.
func Expand(tracks []*Track) ([]*Track, error) {
	var out []*Track
	for _, t := range tracks {
		if t.Glyph != GlyphLoop {
			out = append(out, t.Clone())
			continue
		}
		unrolled, err := expandLoop(t)
		if err != nil {
			return nil, err
		}
		out = append(out, unrolled...)
	}
	return out, nil
}

func expandLoop(t *Track) ([]*Track, error) {
	if len(t.Sub) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "loop track %q has no nested tracks", t.Name)
	}
	values, err := loopValues(t)
	if err != nil {
		return nil, err
	}
	name := t.Options.String("loop-var", "i")

	var out []*Track
	for _, val := range values {
		for _, sub := range t.Sub {
			c := sub.Clone()
			substitute(c, name, val)
			if c.Glyph == GlyphLoop {
				nested, err := expandLoop(c)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
				continue
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// loopValues returns the iteration values: an explicit loop-values
// list, or the integer range [loop-start, loop-end] stepped by
// loop-step.
func loopValues(t *Track) ([]string, error) {
	if vs := t.Options.Strings("loop-values"); len(vs) > 0 {
		return vs, nil
	}
	if !t.Options.Has("loop-start") || !t.Options.Has("loop-end") {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"loop track %q needs loop-values or loop-start/loop-end", t.Name)
	}
	start := t.Options.Int("loop-start", 0)
	end := t.Options.Int("loop-end", 0)
	step := t.Options.Int("loop-step", 1)
	if step <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "loop track %q: loop-step must be positive", t.Name)
	}
	var vs []string
	for i := start; i <= end; i += step {
		vs = append(vs, strconv.Itoa(i))
	}
	if len(vs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"loop track %q: empty range %d..%d", t.Name, start, end)
	}
	return vs, nil
}

func substitute(t *Track, name, val string) {
	pat := "${" + name + "}"
	t.Name = strings.ReplaceAll(t.Name, pat, val)
	t.Glyph = strings.ReplaceAll(t.Glyph, pat, val)
	for k, v := range t.Options {
		switch x := v.(type) {
		case string:
			t.Options[k] = strings.ReplaceAll(x, pat, val)
		case []any:
			repl := make([]any, len(x))
			for i, e := range x {
				if s, ok := e.(string); ok {
					repl[i] = strings.ReplaceAll(s, pat, val)
				} else {
					repl[i] = e
				}
			}
			t.Options[k] = repl
		}
	}
	for _, sub := range t.Sub {
		substitute(sub, name, val)
	}
}
