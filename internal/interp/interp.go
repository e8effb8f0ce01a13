// Package interp provides a monotone piecewise-linear interpolator over a sorted
// key/value table with a configurable extrapolation policy.
package interp

import (
	"errors"
	"sort"
)

var (
	// ErrEmptyTable is returned when a table is built without any points.
	ErrEmptyTable = errors.New("interpolation table has no points")

	// ErrUnsortedKeys is returned when keys are not strictly increasing.
	ErrUnsortedKeys = errors.New("interpolation keys must be strictly increasing")

	// ErrLengthMismatch is returned when keys and values differ in length.
	ErrLengthMismatch = errors.New("interpolation keys and values differ in length")
)

// Extrapolation selects how a Table answers queries outside its key range.
type Extrapolation int

const (
	// Flat holds the nearest end value constant.
	Flat Extrapolation = iota

	// Linear continues the slope of the nearest end segment.
	Linear
)

// Table is an immutable piecewise-linear function.
type Table struct {
	xs     []float64
	ys     []float64
	policy Extrapolation
}

// New builds a Table. The slices are copied so callers may reuse them.
func New(xs, ys []float64, policy Extrapolation) (*Table, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	if len(xs) == 0 {
		return nil, ErrEmptyTable
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, ErrUnsortedKeys
		}
	}

	t := &Table{
		xs:     make([]float64, len(xs)),
		ys:     make([]float64, len(ys)),
		policy: policy,
	}
	copy(t.xs, xs)
	copy(t.ys, ys)
	return t, nil
}

// MustNew is like New but panics on an invalid table. Intended for constant
// tables and for callers whose keys are already sorted and distinct.
func MustNew(xs, ys []float64, policy Extrapolation) *Table {
	t, err := New(xs, ys, policy)
	if err != nil {
		// ALLOW-PANIC: callers guarantee valid keys
		panic(err)
	}
	return t
}

// Len returns the number of points in the table.
func (t *Table) Len() int {
	return len(t.xs)
}

// At evaluates the table at x.
func (t *Table) At(x float64) float64 {
	n := len(t.xs)
	if n == 1 {
		return t.ys[0]
	}

	if x <= t.xs[0] {
		if t.policy == Flat || x == t.xs[0] {
			return t.ys[0]
		}
		return lerp(t.xs[0], t.ys[0], t.xs[1], t.ys[1], x)
	}
	if x >= t.xs[n-1] {
		if t.policy == Flat || x == t.xs[n-1] {
			return t.ys[n-1]
		}
		return lerp(t.xs[n-2], t.ys[n-2], t.xs[n-1], t.ys[n-1], x)
	}

	// first index with xs[i] > x; x is strictly inside the range here
	i := sort.Search(n, func(i int) bool { return t.xs[i] > x })
	return lerp(t.xs[i-1], t.ys[i-1], t.xs[i], t.ys[i], x)
}

// lerp evaluates the line through (x0,y0) and (x1,y1) at x.
func lerp(x0, y0, x1, y1, x float64) float64 {
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
