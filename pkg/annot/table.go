package annot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rajaldebnath/circleator/pkg/genome"
)

// SNPTable reads generic delimited SNP tables with a header row. The
// default column names are "molecule", "pos", "ref", and "alt"
// (case-insensitive); Options.SeqColumn and friends override them.
// The delimiter defaults to tab and can be overridden for CSV input.
type SNPTable struct{}

func (SNPTable) Format() string { return "snptable" }

func (SNPTable) Read(path string, opts Options) ([]Record, error) {
	rows, header, err := readDelimited(path, opts)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	seqCol := headerIndex(header, opts.SeqColumn, "molecule", "chrom", "chr", "seq", "contig")
	posCol := headerIndex(header, opts.PosColumn, "pos", "position", "refpos")
	refCol := headerIndex(header, opts.RefColumn, "ref", "ref_base", "refbase")
	altCol := headerIndex(header, opts.AltColumn, "alt", "new_base", "query_base")
	if seqCol < 0 || posCol < 0 {
		return nil, fmt.Errorf("%s: no sequence/position columns in header %v", path, header)
	}

	typ := opts.featureType("SNP")
	recs := newRecordSet()
	for i, row := range rows {
		pos, err := atoiPositive(row[posCol])
		if err != nil {
			logger.Warnf("%s row %d: bad position %q, skipping", path, i+2, row[posCol])
			continue
		}
		span := 1
		if refCol >= 0 && row[refCol] != "" {
			span = len(row[refCol])
		}
		feat := &genome.Feature{
			Type:   typ,
			Fmin:   pos - 1,
			Fmax:   pos - 1 + span,
			Strand: genome.None,
			Tags:   genome.Tags{},
		}
		if refCol >= 0 {
			feat.Tags.Add("ref", row[refCol])
		}
		if altCol >= 0 {
			feat.Tags.Add("alt", row[altCol])
		}
		for c, name := range header {
			if c != seqCol && c != posCol && c != refCol && c != altCol && row[c] != "" {
				feat.Tags.Add(name, row[c])
			}
		}
		rec := recs.get(row[seqCol])
		rec.Features = append(rec.Features, feat)
	}
	return recs.records(), nil
}

// ExprTable reads gene-expression tables: id, sequence, coordinates, and
// one or more numeric value columns. Each row becomes an "expression"
// feature whose value columns land in tags.
type ExprTable struct{}

func (ExprTable) Format() string { return "exprtable" }

func (ExprTable) Read(path string, opts Options) ([]Record, error) {
	rows, header, err := readDelimited(path, opts)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	idCol := headerIndex(header, "", "id", "gene", "gene_id", "locus")
	seqCol := headerIndex(header, opts.SeqColumn, "molecule", "chrom", "seq", "contig")
	fminCol := headerIndex(header, opts.PosColumn, "fmin", "start")
	fmaxCol := headerIndex(header, opts.EndColumn, "fmax", "end")
	if seqCol < 0 || fminCol < 0 || fmaxCol < 0 {
		return nil, fmt.Errorf("%s: no sequence/coordinate columns in header %v", path, header)
	}

	typ := opts.featureType("expression")
	recs := newRecordSet()
	for i, row := range rows {
		fmin, err1 := strconv.Atoi(row[fminCol])
		fmax, err2 := strconv.Atoi(row[fmaxCol])
		if err1 != nil || err2 != nil || fmin < 0 || fmax < fmin {
			logger.Warnf("%s row %d: bad coordinates %q..%q, skipping", path, i+2, row[fminCol], row[fmaxCol])
			continue
		}
		feat := &genome.Feature{
			Type:   typ,
			Fmin:   fmin,
			Fmax:   fmax,
			Strand: genome.None,
			Tags:   genome.Tags{},
		}
		if idCol >= 0 {
			feat.ID = row[idCol]
		}
		for c, name := range header {
			if c != idCol && c != seqCol && c != fminCol && c != fmaxCol && row[c] != "" {
				feat.Tags.Add(name, row[c])
			}
		}
		rec := recs.get(row[seqCol])
		rec.Features = append(rec.Features, feat)
	}
	return recs.records(), nil
}

// readDelimited loads a delimited file with a header row, returning the
// data rows and the lower-cased header names.
func readDelimited(path string, opts Options) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.Comment = '#'
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty table", path)
	}
	header = all[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	return all[1:], header, nil
}

// headerIndex finds the first matching column: the explicit override if
// given, otherwise the first of the default names present.
func headerIndex(header []string, override string, defaults ...string) int {
	if override != "" {
		defaults = []string{strings.ToLower(override)}
	}
	for _, want := range defaults {
		for i, h := range header {
			if h == want {
				return i
			}
		}
	}
	return -1
}
