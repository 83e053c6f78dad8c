package annot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// GenBank reads GenBank-style flat files: LOCUS header, FEATURES table
// with qualifiers, optional ORIGIN sequence block. Multi-record files
// (separated by "//") yield one Record per LOCUS.
//
// Split locations (join/order) are heuristically merged into their
// overall min..max span with a warning; the complement() wrapper flips
// the strand.
type GenBank struct{}

func (GenBank) Format() string { return "genbank" }

func (GenBank) Read(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	logger := opts.logger()
	var records []Record
	var cur *genbankRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "LOCUS"):
			cur = newGenbankRecord(line)
		case cur == nil:
			continue
		case strings.HasPrefix(line, "FEATURES"):
			cur.section = "features"
		case strings.HasPrefix(line, "ORIGIN"):
			cur.flushFeature(logger, path)
			cur.section = "origin"
		case strings.HasPrefix(line, "//"):
			cur.flushFeature(logger, path)
			records = append(records, cur.record())
			cur = nil
		case cur.section == "features":
			cur.featureLine(line, logger, path)
		case cur.section == "origin":
			cur.originLine(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if cur != nil {
		cur.flushFeature(logger, path)
		records = append(records, cur.record())
	}
	return records, nil
}

type genbankRecord struct {
	id       string
	length   int
	circular bool
	section  string
	features []*genome.Feature

	// feature table state
	pending   *genome.Feature
	pendingOK bool
	qualTag   string
	residues  strings.Builder
}

func newGenbankRecord(locus string) *genbankRecord {
	r := &genbankRecord{}
	fields := strings.Fields(locus)
	if len(fields) > 1 {
		r.id = fields[1]
	}
	for i, f := range fields {
		if f == "bp" && i > 0 {
			if n, err := strconv.Atoi(fields[i-1]); err == nil {
				r.length = n
			}
		}
		if strings.EqualFold(f, "circular") {
			r.circular = true
		}
	}
	return r
}

func (r *genbankRecord) featureLine(line string, logger interface{ Warnf(string, ...any) }, path string) {
	if len(line) < 6 {
		return
	}
	key := strings.TrimSpace(line[:min(21, len(line))])
	rest := ""
	if len(line) > 21 {
		rest = strings.TrimSpace(line[21:])
	}

	switch {
	case key != "":
		// New feature key + location.
		r.flushFeature(logger, path)
		f := &genome.Feature{Type: key, Tags: genome.Tags{}}
		fmin, fmax, strand, split, err := parseGenbankLocation(rest)
		if err != nil {
			logger.Warnf("%s: feature %s: %v, skipping", path, key, err)
			r.pending = nil
			return
		}
		if split {
			logger.Warnf("%s: feature %s at %s has a split location, merged to [%d,%d)", path, key, rest, fmin, fmax)
		}
		f.Fmin, f.Fmax, f.Strand = fmin, fmax, strand
		r.pending = f
		r.pendingOK = true
	case strings.HasPrefix(rest, "/"):
		if r.pending == nil {
			return
		}
		tag, value, hasValue := strings.Cut(rest[1:], "=")
		value = strings.Trim(value, `"`)
		if !hasValue {
			value = "true"
		}
		r.qualTag = tag
		r.pending.Tags.Add(tag, value)
	default:
		// Continuation of the previous qualifier value.
		if r.pending != nil && r.qualTag != "" {
			vs := r.pending.Tags[r.qualTag]
			if len(vs) > 0 {
				vs[len(vs)-1] += " " + strings.Trim(rest, `"`)
			}
		}
	}
}

func (r *genbankRecord) flushFeature(logger interface{ Warnf(string, ...any) }, path string) {
	if r.pending == nil || !r.pendingOK {
		return
	}
	f := r.pending
	r.pending = nil
	r.qualTag = ""
	if id, ok := f.Tags.Get("locus_tag"); ok {
		f.ID = id
	} else if id, ok := f.Tags.Get("gene"); ok {
		f.ID = id
	}
	r.features = append(r.features, f)
}

func (r *genbankRecord) originLine(line string) {
	for _, field := range strings.Fields(line) {
		if _, err := strconv.Atoi(field); err == nil {
			continue
		}
		r.residues.WriteString(strings.ToUpper(field))
	}
}

func (r *genbankRecord) record() Record {
	return Record{
		SeqID:    r.id,
		Features: r.features,
		Length:   r.length,
		Residues: r.residues.String(),
	}
}

// parseGenbankLocation resolves a GenBank location string into a
// half-open interval and strand. complement(...) flips the strand;
// join(...)/order(...) spans are merged to their overall extent and
// reported as split. Partial markers (< and >) are ignored.
func parseGenbankLocation(loc string) (fmin, fmax int, strand genome.Strand, split bool, err error) {
	strand = genome.Forward
	s := strings.TrimSpace(loc)
	for {
		switch {
		case strings.HasPrefix(s, "complement(") && strings.HasSuffix(s, ")"):
			strand = strand.Flip()
			s = s[len("complement(") : len(s)-1]
		case strings.HasPrefix(s, "join(") && strings.HasSuffix(s, ")"):
			split = true
			s = s[len("join(") : len(s)-1]
		case strings.HasPrefix(s, "order(") && strings.HasSuffix(s, ")"):
			split = true
			s = s[len("order(") : len(s)-1]
		default:
			goto parsed
		}
	}
parsed:
	lo, hi := 0, 0
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		part = strings.ReplaceAll(part, "<", "")
		part = strings.ReplaceAll(part, ">", "")
		// complement() nested inside a join segment
		if strings.HasPrefix(part, "complement(") && strings.HasSuffix(part, ")") {
			part = part[len("complement(") : len(part)-1]
		}
		a, b, found := strings.Cut(part, "..")
		if !found {
			b = a
		}
		start, e1 := strconv.Atoi(strings.TrimSpace(a))
		end, e2 := strconv.Atoi(strings.TrimSpace(b))
		if e1 != nil || e2 != nil || start < 1 || end < start {
			return 0, 0, genome.Undetermined, split, fmt.Errorf("unparseable location %q", loc)
		}
		if i == 0 || start < lo {
			lo = start
		}
		if end > hi {
			hi = end
		}
	}
	return lo - 1, hi, strand, split, nil
}
