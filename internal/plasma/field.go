package plasma

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec3 is a 3-component direction vector.
type Vec3 struct {
	X, Y, Z float64
}

// AxisZ is the direction every cell starts with in the wave-heating variant.
var AxisZ = Vec3{0, 0, 1}

// FieldGrid is the discretized magnetic field strength, one value per cell.
// Its length is fixed at construction.
//
// Direction is a parallel per-cell vector used only by the wave-heating
// variant. It is descriptive state; no solver reads it.
type FieldGrid struct {
	Strength  []float64
	Direction []Vec3
}

// NewFieldGrid creates a grid of the given length with every cell set to initial.
func NewFieldGrid(cells int, initial float64) *FieldGrid {
	g := &FieldGrid{Strength: make([]float64, cells)}
	for i := range g.Strength {
		g.Strength[i] = initial
	}
	return g
}

// EnableDirections allocates the per-cell direction vectors, all set to d.
func (g *FieldGrid) EnableDirections(d Vec3) {
	g.Direction = make([]Vec3, len(g.Strength))
	for i := range g.Direction {
		g.Direction[i] = d
	}
}

// Len returns the number of cells.
func (g *FieldGrid) Len() int {
	return len(g.Strength)
}

// Max returns the largest cell strength, or 0 for an empty grid.
func (g *FieldGrid) Max() float64 {
	if len(g.Strength) == 0 {
		return 0
	}
	return floats.Max(g.Strength)
}

// Total returns the sum of all cell strengths.
func (g *FieldGrid) Total() float64 {
	return floats.Sum(g.Strength)
}

// Mean returns the average cell strength, or 0 for an empty grid.
func (g *FieldGrid) Mean() float64 {
	if len(g.Strength) == 0 {
		return 0
	}
	return g.Total() / float64(len(g.Strength))
}

// Values returns a copy of the strengths.
func (g *FieldGrid) Values() []float64 {
	out := make([]float64, len(g.Strength))
	copy(out, g.Strength)
	return out
}

// Clone returns a deep copy.
func (g *FieldGrid) Clone() *FieldGrid {
	c := &FieldGrid{}
	c.CopyFrom(g)
	return c
}

// CopyFrom overwrites g with src, reusing g's buffers when they are large enough.
func (g *FieldGrid) CopyFrom(src *FieldGrid) {
	g.Strength = append(g.Strength[:0], src.Strength...)
	if src.Direction == nil {
		g.Direction = nil
		return
	}
	g.Direction = append(g.Direction[:0], src.Direction...)
}

// Finite returns the index of the first non-finite cell, or -1 if every
// cell holds a finite value.
func (g *FieldGrid) Finite() int {
	for i, v := range g.Strength {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
