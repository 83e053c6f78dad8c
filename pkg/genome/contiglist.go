package genome

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/errors"
)

// ParseContigList reads a contig list file: one tab-delimited row per
// entry with 5 or 6 fields,
//
//	contigId  displayName  length  annotationFile  sequenceFile  [revcomp]
//
// Empty fields and "-" are placeholders. Two contig ids are special:
// "gap" declares an explicit gap using the length field as gap size, and
// "genome" declares an aggregate marker using displayName as the
// aggregate feature's name. Lines starting with '#' are comments.
func ParseContigList(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContigList, err, "open contig list %s", path)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseContigListLine(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidContigList, err, "%s line %d", path, lineNo)
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContigList, err, "read contig list %s", path)
	}
	return entries, nil
}

func parseContigListLine(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 5 || len(fields) > 6 {
		return Entry{}, fmt.Errorf("expected 5 or 6 tab-delimited fields, got %d", len(fields))
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	id := fields[0]
	name := blankToEmpty(fields[1])
	lengthField := blankToEmpty(fields[2])

	length := 0
	if lengthField != "" {
		n, err := strconv.Atoi(lengthField)
		if err != nil || n < 0 {
			return Entry{}, fmt.Errorf("bad length %q", lengthField)
		}
		length = n
	}

	switch id {
	case "gap":
		if length <= 0 {
			return Entry{}, fmt.Errorf("gap entry requires a positive length")
		}
		return GapEntry(length), nil
	case "genome":
		return GenomeEntry(name), nil
	}

	if id == "" || id == "-" {
		return Entry{}, fmt.Errorf("missing contig id")
	}

	c := &Contig{
		ID:          id,
		DisplayName: name,
		Length:      length,
		Orientation: Forward,
		AnnotPath:   blankToEmpty(fields[3]),
		SeqPath:     blankToEmpty(fields[4]),
	}
	if len(fields) == 6 {
		switch fields[5] {
		case "revcomp":
			c.Orientation = Reverse
		case "", "-":
		default:
			return Entry{}, fmt.Errorf("unrecognized flag %q (expected \"revcomp\")", fields[5])
		}
	}
	return ContigEntry(c), nil
}

func blankToEmpty(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
