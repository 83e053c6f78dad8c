package genome

import "testing"

func TestStrandFlip(t *testing.T) {
	tests := []struct{ in, want Strand }{
		{Forward, Reverse},
		{Reverse, Forward},
		{None, None},
		{Undetermined, Undetermined},
	}
	for _, tt := range tests {
		if got := tt.in.Flip(); got != tt.want {
			t.Errorf("Flip(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStrandDetermined(t *testing.T) {
	for _, s := range []Strand{Forward, Reverse, None} {
		if !s.Determined() {
			t.Errorf("%v should be determined", s)
		}
	}
	if Undetermined.Determined() {
		t.Error("Undetermined should not be determined")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b *Feature
		want bool
	}{
		{"overlapping", &Feature{Fmin: 0, Fmax: 100}, &Feature{Fmin: 50, Fmax: 150}, true},
		{"nested", &Feature{Fmin: 0, Fmax: 100}, &Feature{Fmin: 20, Fmax: 30}, true},
		{"abutting half-open", &Feature{Fmin: 0, Fmax: 100}, &Feature{Fmin: 100, Fmax: 200}, false},
		{"disjoint", &Feature{Fmin: 0, Fmax: 10}, &Feature{Fmin: 50, Fmax: 60}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagsMultimap(t *testing.T) {
	tags := Tags{}
	tags.Add("note", "first")
	tags.Add("note", "second")

	if v, ok := tags.Get("note"); !ok || v != "first" {
		t.Errorf("Get = %q,%v", v, ok)
	}
	if vs := tags.Values("note"); len(vs) != 2 {
		t.Errorf("Values = %v", vs)
	}
	if tags.Has("missing") {
		t.Error("Has(missing) = true")
	}

	clone := tags.Clone()
	clone.Add("note", "third")
	if len(tags.Values("note")) != 2 {
		t.Error("Clone shares backing storage with original")
	}
}

func TestIndexRegistration(t *testing.T) {
	ix := NewIndex()
	if err := ix.Add(&Feature{Type: "gene", Fmin: 0, Fmax: 10}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ix.Add(&Feature{Type: "gene", Fmin: 5, Fmax: 2}); err == nil {
		t.Fatal("Add accepted inverted interval")
	}
	if ix.Len() != 1 || len(ix.ByType("gene")) != 1 {
		t.Errorf("index contents wrong: len=%d", ix.Len())
	}
}
