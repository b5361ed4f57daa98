package layout

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Positions maps node IDs to coordinates.
type Positions map[string]r2.Vec

// Clone returns a copy of p. The clone of a nil map is an empty map.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	maps.Copy(out, p)
	return out
}

// IDs returns the node IDs in sorted order.
func (p Positions) IDs() []string {
	return slices.Sorted(maps.Keys(p))
}

// Centroid returns the mean of all coordinates, or the zero vector when p
// is empty.
func (p Positions) Centroid() r2.Vec {
	if len(p) == 0 {
		return r2.Vec{}
	}
	var sum r2.Vec
	for _, v := range p {
		sum = r2.Add(sum, v)
	}
	return r2.Scale(1/float64(len(p)), sum)
}

// Bounds returns the smallest axis-aligned box containing every coordinate.
// Both corners are the zero vector when p is empty.
func (p Positions) Bounds() (minV, maxV r2.Vec) {
	first := true
	for _, v := range p {
		if first {
			minV, maxV = v, v
			first = false
			continue
		}
		minV = r2.Vec{X: min(minV.X, v.X), Y: min(minV.Y, v.Y)}
		maxV = r2.Vec{X: max(maxV.X, v.X), Y: max(maxV.Y, v.Y)}
	}
	return minV, maxV
}
