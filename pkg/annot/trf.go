package annot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// TRF reads Tandem Repeats Finder .dat output: "Sequence: <id>" headers
// followed by data rows whose first columns are start, end (1-based
// inclusive), period size, and copy number.
type TRF struct{}

func (TRF) Format() string { return "trf" }

func (TRF) Read(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	logger := opts.logger()
	typ := opts.featureType("tandem_repeat")
	recs := newRecordSet()
	var cur *Record
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Sequence:"); ok {
			if fields := strings.Fields(rest); len(fields) > 0 {
				cur = recs.get(fields[0])
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || cur == nil {
			continue
		}
		start, err1 := strconv.Atoi(fields[0])
		end, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			// Header prose lines fall through here silently;
			// only rows that begin numerically count.
			continue
		}
		if start < 1 || end < start {
			logger.Warnf("%s line %d: bad repeat range %d..%d, skipping", path, lineNo, start, end)
			continue
		}
		feat := &genome.Feature{
			Type:   typ,
			Fmin:   start - 1,
			Fmax:   end,
			Strand: genome.None,
			Tags:   genome.Tags{},
		}
		feat.Tags.Add("period", fields[2])
		feat.Tags.Add("copies", fields[3])
		cur.Features = append(cur.Features, feat)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs.records(), nil
}
