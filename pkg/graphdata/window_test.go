package graphdata

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "gc-content", wantName: "gc-content"},
		{name: "gc-skew", wantName: "gc-skew"},
		{name: "file:/tmp/vals.txt", wantName: "file:/tmp/vals.txt"},
		{name: "conffile:/tmp/vals.txt", wantName: "file:/tmp/vals.txt"},
		{name: "percent-n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Lookup(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if code := errors.GetCode(err); code != errors.ErrCodeUnknownFunction {
					t.Errorf("code = %v, want %v", code, errors.ErrCodeUnknownFunction)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if f.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.wantName)
			}
		})
	}
}

func TestGCContentWindows(t *testing.T) {
	seq := &genome.Sequence{Length: 12, Residues: "GGGGAAAAGGAA"}
	rows, err := GCContent{}.Values(seq, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	want := []float64{1.0, 0.0, 0.5}
	for i, w := range want {
		if got := rows[i].Value.Scalar(); !almostEqual(got, w) {
			t.Errorf("window %d: value = %v, want %v", i, got, w)
		}
		if rows[i].Fmin != i*4 || rows[i].Fmax != i*4+4 {
			t.Errorf("window %d: extent [%d,%d), want [%d,%d)",
				i, rows[i].Fmin, rows[i].Fmax, i*4, i*4+4)
		}
	}
}

func TestGCContentIgnoresAmbiguity(t *testing.T) {
	seq := &genome.Sequence{Length: 4, Residues: "GANN"}
	rows, err := GCContent{}.Values(seq, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// N residues count toward neither GC nor AT.
	if got := rows[0].Value.Scalar(); !almostEqual(got, 0.5) {
		t.Errorf("value = %v, want 0.5", got)
	}
}

func TestGCSkewWindows(t *testing.T) {
	seq := &genome.Sequence{Length: 8, Residues: "GGGCCCAT"}
	rows, err := GCSkew{}.Values(seq, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].Value.Scalar(); !almostEqual(got, (3.0-3.0)/6.0) {
		t.Errorf("skew = %v, want 0", got)
	}

	seq.Residues = "GGGGGGCC"
	rows, _ = GCSkew{}.Values(seq, 8, 8)
	if got := rows[0].Value.Scalar(); !almostEqual(got, 4.0/8.0) {
		t.Errorf("skew = %v, want 0.5", got)
	}
}

func TestWindowRowsOverlapAndClamp(t *testing.T) {
	seq := &genome.Sequence{Length: 10, Residues: "GGGGGAAAAA"}
	rows, err := GCContent{}.Values(seq, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Windows start every 2 bp; the last one is clamped to the sequence
	// end and terminates the scan.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	last := rows[len(rows)-1]
	if last.Fmin != 6 || last.Fmax != 10 {
		t.Errorf("last window [%d,%d), want [6,10)", last.Fmin, last.Fmax)
	}
}

func TestWindowRowsErrors(t *testing.T) {
	t.Run("no residues", func(t *testing.T) {
		seq := &genome.Sequence{Length: 100}
		if _, err := (GCContent{}).Values(seq, 10, 10); err == nil {
			t.Fatal("expected error without residues")
		}
	})
	t.Run("bad window", func(t *testing.T) {
		seq := &genome.Sequence{Length: 4, Residues: "ACGT"}
		if _, err := (GCContent{}).Values(seq, 0, 0); err == nil {
			t.Fatal("expected error for zero window")
		}
	})
}

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vals.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValueTable(t *testing.T) {
	path := writeTable(t, "# window values\n0\t100\t0.25\n100\t200\t0.75\n")
	rows, err := ValueTable{Path: path}.Values(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Value.IsStacked() {
		t.Error("single value column should not be stacked")
	}
	if got := rows[1].Value.Scalar(); !almostEqual(got, 0.75) {
		t.Errorf("row 1 value = %v, want 0.75", got)
	}
}

func TestValueTableStacked(t *testing.T) {
	path := writeTable(t, "0\t100\t1\t2\t3\n")
	rows, err := ValueTable{Path: path}.Values(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	v := rows[0].Value
	if !v.IsStacked() {
		t.Fatal("multiple value columns should be stacked")
	}
	if got := v.Scalar(); !almostEqual(got, 6) {
		t.Errorf("stacked sum = %v, want 6", got)
	}
	if parts := v.Parts(); len(parts) != 3 || parts[1] != 2 {
		t.Errorf("parts = %v, want [1 2 3]", parts)
	}
}

func TestValueTableConfidence(t *testing.T) {
	path := writeTable(t, "0\t100\t0.5\t0.4\t0.6\n")
	rows, err := ValueTable{Path: path, Conf: true}.Values(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	row := rows[0]
	if row.Value.IsStacked() {
		t.Error("confidence table should produce scalar values")
	}
	if row.ConfLo == nil || row.ConfHi == nil {
		t.Fatal("confidence bounds missing")
	}
	if *row.ConfLo != 0.4 || *row.ConfHi != 0.6 {
		t.Errorf("bounds = [%v,%v], want [0.4,0.6]", *row.ConfLo, *row.ConfHi)
	}

	bad := writeTable(t, "0\t100\t0.5\n")
	if _, err := (ValueTable{Path: bad, Conf: true}).Values(nil, 0, 0); err == nil {
		t.Fatal("expected error for missing confidence columns")
	}
}

func TestValueTableMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few columns", "0\t100\n"},
		{"bad fmin", "x\t100\t1\n"},
		{"inverted window", "100\t50\t1\n"},
		{"bad value", "0\t100\thigh\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTable(t, tt.content)
			if _, err := (ValueTable{Path: path}).Values(nil, 0, 0); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValueZero(t *testing.T) {
	var v Value
	if v.IsStacked() {
		t.Error("zero value should be scalar")
	}
	if v.Scalar() != 0 {
		t.Errorf("zero value scalar = %v, want 0", v.Scalar())
	}
	if parts := v.Parts(); len(parts) != 1 || parts[0] != 0 {
		t.Errorf("zero value parts = %v, want [0]", parts)
	}
}
