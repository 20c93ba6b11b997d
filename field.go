package tetmesh

import (
	"errors"
	"math"
	"sort"

	"github.com/tetmesh/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultOutside is the density assigned to voxel corners that have no
// matching sample in the field. Generated densities live in [0,1) so the
// sentinel always classifies as outside for isovalues below 1.
const DefaultOutside = 1.0

// Sample is a 3D position tagged with a scalar density.
// Samples are immutable once loaded or generated.
type Sample struct {
	Pos     r3.Vec
	Density float64
}

// Field3 is the interface to a volumetric scalar density field.
type Field3 interface {
	// Density returns the density at point p and whether the field
	// has a value there. Callers decide what a miss means; the
	// marching renderer substitutes DefaultOutside.
	Density(p r3.Vec) (density float64, ok bool)
	// Bounds returns the axis-aligned bounding box of the field.
	Bounds() r3.Box
}

// positions are quantized to this resolution before map lookup so that
// corners computed as min + k*step still hit parsed sample coordinates.
const posQuantum = 1e-6

type posKey [3]int64

func keyOf(p r3.Vec) posKey {
	return posKey{
		int64(math.Round(p.X / posQuantum)),
		int64(math.Round(p.Y / posQuantum)),
		int64(math.Round(p.Z / posQuantum)),
	}
}

// PointField is a discrete density field over a fixed sample set with
// exact-position lookup. It only resolves queries whose position
// coincides with a sample, which is the gridded-input precondition of
// the marching traversal; use NewNearestField for scattered clouds.
type PointField struct {
	samples []Sample
	lookup  map[posKey]float64
	bb      d3.Box
}

var _ Field3 = (*PointField)(nil)

// NewPointField builds an exact-lookup field from samples.
func NewPointField(samples []Sample) (*PointField, error) {
	if len(samples) == 0 {
		return nil, errors.New("point field requires at least one sample")
	}
	f := &PointField{
		samples: samples,
		lookup:  make(map[posKey]float64, len(samples)),
		bb:      d3.Box{Min: samples[0].Pos, Max: samples[0].Pos},
	}
	for _, s := range samples {
		f.lookup[keyOf(s.Pos)] = s.Density
		f.bb = f.bb.Include(s.Pos)
	}
	return f, nil
}

// Density looks up the sample density at exactly p.
func (f *PointField) Density(p r3.Vec) (float64, bool) {
	d, ok := f.lookup[keyOf(p)]
	return d, ok
}

// Bounds returns the bounding box of the sample set.
func (f *PointField) Bounds() r3.Box { return r3.Box(f.bb) }

// Len returns the number of samples in the field.
func (f *PointField) Len() int { return len(f.samples) }

// Samples returns the field's backing sample set. The slice must not
// be mutated.
func (f *PointField) Samples() []Sample { return f.samples }

// GridStep derives a per-axis step from the sample coordinates: the
// minimum positive spacing between distinct coordinates on each axis.
// Axes with a single distinct coordinate get step 1.
func (f *PointField) GridStep() r3.Vec {
	var xs, ys, zs []float64
	for _, s := range f.samples {
		xs = append(xs, s.Pos.X)
		ys = append(ys, s.Pos.Y)
		zs = append(zs, s.Pos.Z)
	}
	return r3.Vec{X: minSpacing(xs), Y: minSpacing(ys), Z: minSpacing(zs)}
}

func minSpacing(coords []float64) float64 {
	sort.Float64s(coords)
	spacing := math.Inf(1)
	for i := 1; i < len(coords); i++ {
		d := coords[i] - coords[i-1]
		if d > posQuantum && d < spacing {
			spacing = d
		}
	}
	if math.IsInf(spacing, 1) {
		return 1
	}
	return spacing
}
