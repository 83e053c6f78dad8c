package track

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// Config is a parsed track-configuration file: document-level drawing
// settings plus the ordered track list, still unexpanded.
type Config struct {
	Radius   float64
	Pad      float64
	Rotation float64
	GapSize  int
	Scale    string
	Tracks   []*Track
}

type rawConfig struct {
	Radius   float64          `toml:"radius"`
	Pad      float64          `toml:"pad"`
	Rotation float64          `toml:"rotation"`
	GapSize  int              `toml:"gap-size"`
	Scale    string           `toml:"scale"`
	Track    []map[string]any `toml:"track"`
}

// LoadConfig reads a TOML track-configuration file. Tracks appear as
// an array of tables; keys other than name, glyph, start-frac,
// end-frac and the nested track array land in the track's option bag.
func LoadConfig(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse track configuration %s", path)
	}
	cfg, err := fromRaw(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track configuration %s", path)
	}
	return cfg, nil
}

// ParseConfig is LoadConfig for in-memory TOML, used by the serve path.
func ParseConfig(data string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse track configuration")
	}
	cfg, err := fromRaw(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track configuration")
	}
	return cfg, nil
}

func fromRaw(raw *rawConfig) (*Config, error) {
	cfg := &Config{
		Radius:   raw.Radius,
		Pad:      raw.Pad,
		Rotation: raw.Rotation,
		GapSize:  raw.GapSize,
		Scale:    raw.Scale,
	}
	for i, m := range raw.Track {
		t, err := buildTrack(m)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
		cfg.Tracks = append(cfg.Tracks, t)
	}
	return cfg, nil
}

func buildTrack(m map[string]any) (*Track, error) {
	t := &Track{Options: make(Options)}
	for k, v := range m {
		switch k {
		case "name":
			t.Name = fmt.Sprint(v)
		case "glyph":
			t.Glyph = fmt.Sprint(v)
		case "start-frac":
			f, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("start-frac: not a number: %v", v)
			}
			t.StartFrac = f
		case "end-frac":
			f, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("end-frac: not a number: %v", v)
			}
			t.EndFrac = f
		case "track":
			subs, err := asTables(v)
			if err != nil {
				return nil, err
			}
			for j, sm := range subs {
				sub, err := buildTrack(sm)
				if err != nil {
					return nil, fmt.Errorf("nested track %d: %w", j+1, err)
				}
				t.Sub = append(t.Sub, sub)
			}
		default:
			t.Options[k] = v
		}
	}
	if t.Glyph == "" {
		return nil, fmt.Errorf("track needs a glyph")
	}
	if t.StartFrac < 0 || t.EndFrac > 1 {
		return nil, fmt.Errorf("radial extent [%g,%g] outside [0,1]", t.StartFrac, t.EndFrac)
	}
	if len(t.Sub) > 0 && t.Glyph != GlyphLoop {
		return nil, fmt.Errorf("nested tracks are only valid under a %q track", GlyphLoop)
	}
	return t, nil
}

func asTables(v any) ([]map[string]any, error) {
	switch x := v.(type) {
	case []map[string]any:
		return x, nil
	case []any:
		out := make([]map[string]any, 0, len(x))
		for _, e := range x {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("nested track list has unexpected shape")
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("nested track list has unexpected shape")
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}
