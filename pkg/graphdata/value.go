// Package graphdata supplies pre-aggregated window values to graph
// tracks: a tagged value union (scalar or stacked vector), the window
// row type, and the built-in value functions computed over the assembled
// sequence.
package graphdata

// Value is either a single scalar or a stacked vector of series values
// (stacked-bar mode). The zero value is the scalar 0.
type Value struct {
	scalar  float64
	stacked []float64
}

// Scalar wraps a single value.
func Scalar(v float64) Value {
	return Value{scalar: v}
}

// Stacked wraps a vector of series values.
func Stacked(vs ...float64) Value {
	return Value{stacked: vs}
}

// IsStacked reports whether the value is a stacked vector.
func (v Value) IsStacked() bool {
	return v.stacked != nil
}

// Scalar returns the scalar value; for stacked values it returns the
// sum, the quantity a stacked bar occupies.
func (v Value) Scalar() float64 {
	if v.stacked == nil {
		return v.scalar
	}
	sum := 0.0
	for _, x := range v.stacked {
		sum += x
	}
	return sum
}

// Parts returns the stacked series values, or a one-element slice for a
// scalar.
func (v Value) Parts() []float64 {
	if v.stacked == nil {
		return []float64{v.scalar}
	}
	return v.stacked
}

// Row is one aggregated window: the window's half-open extent and its
// value, with an optional confidence interval.
type Row struct {
	Fmin  int
	Fmax  int
	Value Value
	// ConfLo/ConfHi bound a confidence interval when both are set.
	ConfLo *float64
	ConfHi *float64
}
