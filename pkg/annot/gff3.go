package annot

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// GFF3 reads GFF version 3 files: nine tab-delimited columns, key=value
// attribute pairs, optional ##sequence-region directives and an optional
// trailing ##FASTA section. Coordinates in the file are 1-based closed
// and are converted to half-open interbase on read.
type GFF3 struct{}

func (GFF3) Format() string { return "gff3" }

func (GFF3) Read(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	logger := opts.logger()
	recs := newRecordSet()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	inFasta := false
	var fastaID string
	var fastaSeq strings.Builder

	flushFasta := func() {
		if fastaID != "" {
			recs.get(fastaID).Residues = fastaSeq.String()
		}
		fastaSeq.Reset()
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if inFasta {
			if strings.HasPrefix(line, ">") {
				flushFasta()
				fastaID = strings.Fields(line[1:])[0]
			} else {
				fastaSeq.WriteString(strings.TrimSpace(line))
			}
			continue
		}
		switch {
		case line == "" || strings.HasPrefix(line, "###"):
			continue
		case strings.HasPrefix(line, "##FASTA"):
			inFasta = true
			continue
		case strings.HasPrefix(line, "##sequence-region"):
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				if end, err := strconv.Atoi(fields[3]); err == nil {
					recs.get(fields[1]).Length = end
				}
			}
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		feat, seqID, err := parseGFF3Line(line)
		if err != nil {
			logger.Warnf("%s line %d: %v, skipping", path, lineNo, err)
			continue
		}
		rec := recs.get(seqID)
		rec.Features = append(rec.Features, feat)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	flushFasta()
	return recs.records(), nil
}

func parseGFF3Line(line string) (*genome.Feature, string, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 9 {
		return nil, "", fmt.Errorf("expected 9 columns, got %d", len(cols))
	}
	start, err := strconv.Atoi(cols[3])
	if err != nil {
		return nil, "", fmt.Errorf("bad start %q", cols[3])
	}
	end, err := strconv.Atoi(cols[4])
	if err != nil {
		return nil, "", fmt.Errorf("bad end %q", cols[4])
	}
	if start < 1 || end < start {
		return nil, "", fmt.Errorf("bad coordinates %d..%d", start, end)
	}

	f := &genome.Feature{
		Type:   cols[2],
		Fmin:   start - 1,
		Fmax:   end,
		Strand: parseStrand(cols[6]),
		Tags:   genome.Tags{},
	}
	if cols[1] != "." {
		f.Tags.Add("source", cols[1])
	}
	if cols[5] != "." {
		f.Tags.Add("score", cols[5])
	}
	for _, pair := range strings.Split(cols[8], ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		for _, v := range strings.Split(value, ",") {
			if u, err := url.QueryUnescape(v); err == nil {
				v = u
			}
			f.Tags.Add(key, v)
		}
	}
	if id, ok := f.Tags.Get("ID"); ok {
		f.ID = id
	}
	return f, cols[0], nil
}

// recordSet accumulates per-sequence records in first-seen order.
type recordSet struct {
	order []string
	byID  map[string]*Record
}

func newRecordSet() *recordSet {
	return &recordSet{byID: make(map[string]*Record)}
}

func (rs *recordSet) get(seqID string) *Record {
	if r, ok := rs.byID[seqID]; ok {
		return r
	}
	r := &Record{SeqID: seqID}
	rs.byID[seqID] = r
	rs.order = append(rs.order, seqID)
	return r
}

func (rs *recordSet) records() []Record {
	out := make([]Record, 0, len(rs.order))
	for _, id := range rs.order {
		out = append(out, *rs.byID[id])
	}
	return out
}
