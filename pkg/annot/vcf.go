package annot

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// VCF reads Variant Call Format files. Each data row becomes one
// strandless feature spanning the reference allele; REF, ALT, ID, QUAL,
// and FILTER land in the feature's tags.
type VCF struct{}

func (VCF) Format() string { return "vcf" }

func (VCF) Read(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	logger := opts.logger()
	typ := opts.featureType("SNP")
	recs := newRecordSet()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 8 {
			logger.Warnf("%s line %d: expected at least 8 columns, got %d, skipping", path, lineNo, len(cols))
			continue
		}
		pos, err := atoiPositive(cols[1])
		if err != nil {
			logger.Warnf("%s line %d: bad POS %q, skipping", path, lineNo, cols[1])
			continue
		}
		ref := cols[3]
		feat := &genome.Feature{
			Type:   typ,
			Fmin:   pos - 1,
			Fmax:   pos - 1 + len(ref),
			Strand: genome.None,
			Tags:   genome.Tags{},
		}
		if cols[2] != "." {
			feat.ID = cols[2]
			feat.Tags.Add("id", cols[2])
		}
		feat.Tags.Add("ref", ref)
		for _, alt := range strings.Split(cols[4], ",") {
			feat.Tags.Add("alt", alt)
		}
		if cols[5] != "." {
			feat.Tags.Add("qual", cols[5])
		}
		if cols[6] != "." && cols[6] != "" {
			feat.Tags.Add("filter", cols[6])
		}
		rec := recs.get(cols[0])
		rec.Features = append(rec.Features, feat)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs.records(), nil
}

func atoiPositive(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a positive integer: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return 0, fmt.Errorf("position must be >= 1")
	}
	return n, nil
}
