package coord

import (
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// ParseScaleSpec parses a scaled-segment specification of the form
//
//	fmin-fmax:scale[,fmin-fmax:scale...]
//
// for example "2000-3000:5,4000-5000:0.5". Coordinates are base-pair
// positions, scale is a positive multiplier applied to the segment's
// extent on the circle.
func ParseScaleSpec(spec string) ([]Segment, error) {
	var segments []Segment
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seg, err := parseScaleSegment(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScale, "scale specification %q contains no segments", spec)
	}
	return segments, nil
}

func parseScaleSegment(s string) (Segment, error) {
	rangePart, scalePart, ok := strings.Cut(s, ":")
	if !ok {
		return Segment{}, errors.New(errors.ErrCodeInvalidScale, "segment %q is missing a :scale suffix", s)
	}
	minPart, maxPart, ok := strings.Cut(rangePart, "-")
	if !ok {
		return Segment{}, errors.New(errors.ErrCodeInvalidScale, "segment %q is missing a fmin-fmax range", s)
	}
	fmin, err := strconv.ParseFloat(strings.TrimSpace(minPart), 64)
	if err != nil {
		return Segment{}, errors.New(errors.ErrCodeInvalidScale, "segment %q: bad fmin: %v", s, err)
	}
	fmax, err := strconv.ParseFloat(strings.TrimSpace(maxPart), 64)
	if err != nil {
		return Segment{}, errors.New(errors.ErrCodeInvalidScale, "segment %q: bad fmax: %v", s, err)
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(scalePart), 64)
	if err != nil {
		return Segment{}, errors.New(errors.ErrCodeInvalidScale, "segment %q: bad scale: %v", s, err)
	}
	return Segment{Fmin: fmin, Fmax: fmax, Scale: scale}, nil
}
