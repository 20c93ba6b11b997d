package d3

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Random returns a random point within the box.
func (a Box) Random(rnd *rand.Rand) r3.Vec {
	return r3.Vec{
		X: randomRange(rnd, a.Min.X, a.Max.X),
		Y: randomRange(rnd, a.Min.Y, a.Max.Y),
		Z: randomRange(rnd, a.Min.Z, a.Max.Z),
	}
}

// RandomSet returns a set of random points from within the box.
func (a Box) RandomSet(n int, rnd *rand.Rand) []r3.Vec {
	s := make([]r3.Vec, n)
	for i := range s {
		s[i] = a.Random(rnd)
	}
	return s
}

// randomRange returns a random float64 in [a,b)
func randomRange(rnd *rand.Rand, a, b float64) float64 {
	return a + (b-a)*rnd.Float64()
}
