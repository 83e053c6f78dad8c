package genome

import (
	"github.com/rajaldebnath/circleator/pkg/errors"
)

// Index is the global feature index over the assembled sequence. It is
// append-only: features are registered during assembly and track
// resolution and never removed.
type Index struct {
	all    []*Feature
	byType map[string][]*Feature
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byType: make(map[string][]*Feature)}
}

// Add registers a feature. Registration fails if the feature violates its
// structural invariants; a failed registration is fatal to the render.
func (ix *Index) Add(f *Feature) error {
	if err := f.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeIndexRegister, err, "register feature")
	}
	ix.all = append(ix.all, f)
	ix.byType[f.Type] = append(ix.byType[f.Type], f)
	return nil
}

// All returns every registered feature in registration order.
func (ix *Index) All() []*Feature {
	return ix.all
}

// ByType returns all features of the given type.
func (ix *Index) ByType(typ string) []*Feature {
	return ix.byType[typ]
}

// Len returns the number of registered features.
func (ix *Index) Len() int {
	return len(ix.all)
}
