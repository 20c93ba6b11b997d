package tetmesh

import (
	"math"

	"github.com/tetmesh/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ Field3           = (*NearestField)(nil)
	_ kdtree.Interface = kdSamples{}
	_ kdtree.Bounder   = kdSamples{}
)

// NearestField resolves density queries to the nearest sample in the
// cloud. Unlike PointField it answers every query, which makes it
// usable with scattered (non-gridded) input at the cost of a lossy
// nearest-neighbor policy.
type NearestField struct {
	tree *kdtree.Tree
	bb   d3.Box
}

// NewNearestField builds a kd-tree field over the sample cloud.
func NewNearestField(samples []Sample) *NearestField {
	kd := make(kdSamples, len(samples))
	bb := d3.Box{Min: samples[0].Pos, Max: samples[0].Pos}
	for i := range kd {
		kd[i] = kdSample(samples[i])
		bb = bb.Include(samples[i].Pos)
	}
	return &NearestField{tree: kdtree.New(kd, true), bb: bb}
}

// Density returns the density of the sample nearest to p.
func (f *NearestField) Density(p r3.Vec) (float64, bool) {
	got, _ := f.tree.Nearest(kdSample{Pos: p})
	return got.(kdSample).Density, true
}

// Bounds returns the bounding box of the sample cloud.
func (f *NearestField) Bounds() r3.Box { return r3.Box(f.bb) }

type kdSamples []kdSample

type kdSample Sample

func (k kdSamples) Index(i int) kdtree.Comparable { return k[i] }

func (k kdSamples) Len() int { return len(k) }

// Pivot partitions the list along the dimension specified.
func (k kdSamples) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), samples: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half open indexing.
func (k kdSamples) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdSamples) Bounds() *kdtree.Bounding {
	min := r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := r3.Scale(-1, min)
	for _, s := range k {
		min = d3.MinElem(min, s.Pos)
		max = d3.MaxElem(max, s.Pos)
	}
	return &kdtree.Bounding{Min: kdSample{Pos: min}, Max: kdSample{Pos: max}}
}

// Compare returns the signed distance of a from the plane passing
// through b perpendicular to dimension d.
func (a kdSample) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdSample), int(d))
}

func (a kdSample) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between sample positions.
func (a kdSample) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Pos, b.(kdSample).Pos))
}

func kdComp(a, b kdSample, dim int) float64 {
	switch dim {
	case 0:
		return a.Pos.X - b.Pos.X
	case 1:
		return a.Pos.Y - b.Pos.Y
	default:
		return a.Pos.Z - b.Pos.Z
	}
}

type kdPlane struct {
	dim     int
	samples kdSamples
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.samples[i], p.samples[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}
func (p kdPlane) Len() int { return len(p.samples) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
