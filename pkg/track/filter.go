package track

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
)

type predicate func(*genome.Feature) bool

// buildFilters compiles the track's option-driven filter criteria. The
// result is applied as a short-circuit AND per feature.
func buildFilters(t *Track, seq *genome.Sequence) ([]predicate, error) {
	var preds []predicate

	// feature-type names the type to assign on literal tracks; on every
	// other source it filters.
	if typ := t.Options.String("feature-type", ""); typ != "" && !t.Options.Has("features") {
		preds = append(preds, func(f *genome.Feature) bool { return f.Type == typ })
	}

	if pat := t.Options.String("feature-type-regex", ""); pat != "" {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err,
				"track %q: feature-type-regex", t.Name)
		}
		preds = append(preds, func(f *genome.Feature) bool { return re.MatchString(f.Type) })
	}

	if s := t.Options.String("feature-strand", ""); s != "" {
		want, err := parseStrandOption(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err,
				"track %q: feature-strand", t.Name)
		}
		preds = append(preds, func(f *genome.Feature) bool { return f.Strand == want })
	}

	if t.Options.Has("min-length") {
		min := t.Options.Int("min-length", 0)
		preds = append(preds, func(f *genome.Feature) bool { return f.Length() >= min })
	}
	if t.Options.Has("max-length") {
		max := t.Options.Int("max-length", 0)
		preds = append(preds, func(f *genome.Feature) bool { return f.Length() <= max })
	}

	if tag := t.Options.String("tag-present", ""); tag != "" {
		preds = append(preds, func(f *genome.Feature) bool { return f.Tags.Has(tag) })
	}
	if kv := t.Options.String("tag-equals", ""); kv != "" {
		key, want, err := splitKV(kv)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %q: tag-equals", t.Name)
		}
		preds = append(preds, func(f *genome.Feature) bool {
			for _, v := range f.Tags.Values(key) {
				if v == want {
					return true
				}
			}
			return false
		})
	}
	if kv := t.Options.String("tag-min", ""); kv != "" {
		p, err := tagNumeric(kv, t.Name, "tag-min", func(v, bound float64) bool { return v >= bound })
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if kv := t.Options.String("tag-max", ""); kv != "" {
		p, err := tagNumeric(kv, t.Name, "tag-max", func(v, bound float64) bool { return v <= bound })
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if kv := t.Options.String("tag-regex", ""); kv != "" {
		key, pat, err := splitKV(kv)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %q: tag-regex", t.Name)
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %q: tag-regex", t.Name)
		}
		preds = append(preds, func(f *genome.Feature) bool {
			for _, v := range f.Tags.Values(key) {
				if re.MatchString(v) {
					return true
				}
			}
			return false
		})
	}

	if typ := t.Options.String("overlaps-type", ""); typ != "" {
		others := seq.Index.ByType(typ)
		preds = append(preds, func(f *genome.Feature) bool {
			for _, o := range others {
				if f.Overlaps(o) {
					return true
				}
			}
			return false
		})
	}

	return preds, nil
}

// applyFilters keeps the features passing every predicate, evaluated
// short-circuit in order.
func applyFilters(feats []*genome.Feature, preds []predicate) []*genome.Feature {
	if len(preds) == 0 {
		return feats
	}
	out := make([]*genome.Feature, 0, len(feats))
feature:
	for _, f := range feats {
		for _, p := range preds {
			if !p(f) {
				continue feature
			}
		}
		out = append(out, f)
	}
	return out
}

// clipRange keeps features intersecting the closed clip window: the
// feature's end must reach lo and its start must not pass hi.
func clipRange(feats []*genome.Feature, lo, hi int) []*genome.Feature {
	out := make([]*genome.Feature, 0, len(feats))
	for _, f := range feats {
		if f.Fmax >= lo && f.Fmin <= hi {
			out = append(out, f)
		}
	}
	return out
}

func tagNumeric(kv, track, opt string, cmp func(v, bound float64) bool) (predicate, error) {
	key, bs, err := splitKV(kv)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track %q: %s", track, opt)
	}
	bound, err := strconv.ParseFloat(bs, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"track %q: %s: bound %q is not a number", track, opt, bs)
	}
	return func(f *genome.Feature) bool {
		for _, v := range f.Tags.Values(key) {
			if x, err := strconv.ParseFloat(v, 64); err == nil && cmp(x, bound) {
				return true
			}
		}
		return false
	}, nil
}

func splitKV(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", errors.New(errors.ErrCodeInvalidConfig, "want key=value, got %q", s)
	}
	return key, value, nil
}

func parseStrandOption(s string) (genome.Strand, error) {
	switch s {
	case "+", "1":
		return genome.Forward, nil
	case "-", "-1":
		return genome.Reverse, nil
	case ".", "0":
		return genome.None, nil
	}
	return genome.None, errors.New(errors.ErrCodeInvalidConfig, "bad strand %q", s)
}
