package graphdata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
)

// Func produces aggregated window rows for a graph track.
type Func interface {
	// Name returns the function name used in track configuration.
	Name() string
	// Domain returns the function's declared value range. ok is false
	// when the function has no intrinsic range (range-min/range-max
	// symbols then fall back to the observed data).
	Domain() (min, max float64, ok bool)
	// Values aggregates over windows of the given size advancing by
	// step base pairs (step < window yields overlapping windows).
	Values(seq *genome.Sequence, window, step int) ([]Row, error)
}

// Lookup resolves a value-function name: the built-in sequence
// functions, or "file:<path>" for a literal per-window value table.
func Lookup(name string) (Func, error) {
	switch name {
	case "gc-content":
		return GCContent{}, nil
	case "gc-skew":
		return GCSkew{}, nil
	}
	if path, ok := strings.CutPrefix(name, "file:"); ok {
		return ValueTable{Path: path}, nil
	}
	if path, ok := strings.CutPrefix(name, "conffile:"); ok {
		return ValueTable{Path: path, Conf: true}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownFunction, "unknown graph function %q", name)
}

// GCContent computes the G+C fraction of each window, in [0,1].
type GCContent struct{}

func (GCContent) Name() string { return "gc-content" }

func (GCContent) Domain() (float64, float64, bool) { return 0, 1, true }

func (GCContent) Values(seq *genome.Sequence, window, step int) ([]Row, error) {
	return windowRows(seq, window, step, func(res string) float64 {
		gc, at := countBases(res)
		if gc+at == 0 {
			return 0
		}
		return float64(gc) / float64(gc+at)
	})
}

// GCSkew computes (G-C)/(G+C) per window, in [-1,1].
type GCSkew struct{}

func (GCSkew) Name() string { return "gc-skew" }

func (GCSkew) Domain() (float64, float64, bool) { return -1, 1, true }

func (GCSkew) Values(seq *genome.Sequence, window, step int) ([]Row, error) {
	return windowRows(seq, window, step, func(res string) float64 {
		g := strings.Count(res, "G")
		c := strings.Count(res, "C")
		if g+c == 0 {
			return 0
		}
		return float64(g-c) / float64(g+c)
	})
}

func countBases(res string) (gc, at int) {
	for i := 0; i < len(res); i++ {
		switch res[i] {
		case 'G', 'C':
			gc++
		case 'A', 'T':
			at++
		}
	}
	return gc, at
}

func windowRows(seq *genome.Sequence, window, step int, f func(string) float64) ([]Row, error) {
	if seq.Residues == "" {
		return nil, fmt.Errorf("sequence residues are not available; provide sequence files to compute per-window values")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", window)
	}
	if step <= 0 {
		step = window
	}
	var rows []Row
	for fmin := 0; fmin < seq.Length; fmin += step {
		fmax := fmin + window
		if fmax > seq.Length {
			fmax = seq.Length
		}
		rows = append(rows, Row{
			Fmin:  fmin,
			Fmax:  fmax,
			Value: Scalar(f(seq.Residues[fmin:fmax])),
		})
		if fmax == seq.Length {
			break
		}
	}
	return rows, nil
}

// ValueTable reads pre-aggregated window values from a tab-delimited
// file: fmin, fmax, then one or more value columns. Several value
// columns make a stacked value, unless Conf is set, in which case
// exactly three columns are read as value, confidence low, confidence
// high.
type ValueTable struct {
	Path string
	// Conf marks the table as carrying a confidence interval.
	Conf bool
}

func (v ValueTable) Name() string { return "file:" + v.Path }

func (ValueTable) Domain() (float64, float64, bool) { return 0, 0, false }

func (v ValueTable) Values(seq *genome.Sequence, window, step int) ([]Row, error) {
	f, err := os.Open(v.Path)
	if err != nil {
		return nil, fmt.Errorf("open value table %s: %w", v.Path, err)
	}
	defer f.Close()

	var rows []Row
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s line %d: expected fmin, fmax, value...", v.Path, lineNo)
		}
		fmin, err1 := strconv.Atoi(fields[0])
		fmax, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || fmin < 0 || fmax < fmin {
			return nil, fmt.Errorf("%s line %d: bad window %q..%q", v.Path, lineNo, fields[0], fields[1])
		}
		vals := make([]float64, 0, len(fields)-2)
		for _, fld := range fields[2:] {
			x, err := strconv.ParseFloat(fld, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad value %q", v.Path, lineNo, fld)
			}
			vals = append(vals, x)
		}
		row := Row{Fmin: fmin, Fmax: fmax}
		switch {
		case v.Conf:
			if len(vals) != 3 {
				return nil, fmt.Errorf("%s line %d: confidence table needs value, low, high", v.Path, lineNo)
			}
			row.Value = Scalar(vals[0])
			lo, hi := vals[1], vals[2]
			row.ConfLo, row.ConfHi = &lo, &hi
		case len(vals) == 1:
			row.Value = Scalar(vals[0])
		default:
			row.Value = Stacked(vals...)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read value table %s: %w", v.Path, err)
	}
	return rows, nil
}
