package render

import "gonum.org/v1/gonum/spatial/r3"

// Triangle3 is a 3D triangle defined by its three vertices.
type Triangle3 [3]r3.Vec

// Normal returns the normal vector of the triangle from the
// right-hand rule over its vertex winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if any two vertices coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return equalWithin(t[0], t[1], tol) ||
		equalWithin(t[1], t[2], tol) ||
		equalWithin(t[2], t[0], tol)
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= tol*tol
}
