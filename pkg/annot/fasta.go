package annot

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// FASTA reads sequence files. The records carry residues and lengths but
// no features; contigs use this reader to pick up their sequence.
type FASTA struct{}

func (FASTA) Format() string { return "fasta" }

func (FASTA) Read(path string, opts Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(bufio.NewReader(f), template))

	var records []Record
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		residues := strings.ToUpper(alphabet.Letters(s.Seq).String())
		records = append(records, Record{
			SeqID:    s.ID,
			Length:   len(residues),
			Residues: residues,
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no sequences found", path)
	}
	return records, nil
}
