// Package track models the concentric bands of a circular map: the
// track record with its glyph and option bag, the TOML configuration
// loader, loop pre-expansion, and the feature pipeline that resolves
// and filters the feature set each track draws.
package track

import (
	"fmt"
	"strconv"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// Track is one concentric radial band of the image. StartFrac and
// EndFrac bound its radial extent as fractions of the drawing radius.
// The resolved feature list is filled lazily by Pipeline.Resolve and
// cached on the track so later tracks can reuse it by name.
type Track struct {
	Name      string
	Glyph     string
	StartFrac float64
	EndFrac   float64
	Options   Options

	// Predicate is an optional programmatic filter applied alongside
	// the option-driven criteria.
	Predicate func(*genome.Feature) bool

	// Sub holds the nested tracks of a loop construct. Expand unrolls
	// them; render never sees a track with Sub set.
	Sub []*Track

	features []*genome.Feature
	resolved bool
}

// Features returns the cached resolved feature list, or nil if the
// track has not been resolved yet.
func (t *Track) Features() ([]*genome.Feature, bool) {
	return t.features, t.resolved
}

// Options is a track's option bag as decoded from TOML. Values are
// TOML-typed (string, int64, float64, bool, []any); the typed getters
// coerce where the coercion is lossless.
type Options map[string]any

// Has reports whether the option is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns a string option, or def when absent.
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Float returns a numeric option, or def when absent. TOML integers
// are accepted; strings holding numbers are coerced as a convenience
// for loop variables substituted into numeric options.
func (o Options) Float(key string, def float64) float64 {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns an integer option, or def when absent.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return n
		}
	}
	return def
}

// Bool returns a boolean option, or def when absent.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b
		}
	}
	return def
}

// Strings returns a list-valued option. A scalar string is returned as
// a one-element list.
func (o Options) Strings(key string) []string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case []string:
		return x
	}
	return nil
}

// Clone copies the track with an independent option bag. The resolved
// feature cache is not carried over.
func (t *Track) Clone() *Track {
	c := &Track{
		Name:      t.Name,
		Glyph:     t.Glyph,
		StartFrac: t.StartFrac,
		EndFrac:   t.EndFrac,
		Options:   make(Options, len(t.Options)),
		Predicate: t.Predicate,
	}
	for k, v := range t.Options {
		c.Options[k] = v
	}
	for _, s := range t.Sub {
		c.Sub = append(c.Sub, s.Clone())
	}
	return c
}
