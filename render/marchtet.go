package render

import (
	"io"
	"math"

	"github.com/tetmesh/tetmesh"
	"github.com/tetmesh/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Marching tetrahedra: every voxel of the traversal is split into six
// tetrahedra, each tetrahedron's corners are classified against the
// isovalue and the crossing edges looked up from a 16-case table.
// Tables and conventions from:
// http://paulbourke.net/geometry/polygonise/
//
//	          + p0
//	         /|\
//	        / | \
//	       /  |  \
//	      +-------+ p1
//	    p3 \  |  /
//	        \ | /
//	         \|/
//	          + p2

// Voxel corner layout relative to the cell origin (x,y,z):
//
//	v0=(x,y,z)       v1=(x+dx,y,z)       v2=(x+dx,y,z+dz)    v3=(x,y,z+dz)
//	v4=(x,y+dy,z)    v5=(x+dx,y+dy,z)    v6=(x+dx,y+dy,z+dz) v7=(x,y+dy,z+dz)
var voxelCorner = [8][3]float64{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// tetCorners assigns voxel corner indices to the vertices p0..p3 of
// the six tetrahedra tiling one voxel. The ordering is load-bearing:
// the case table and triangle recipes below assume exactly this
// edge-to-vertex-pair correspondence.
var tetCorners = [6][4]int{
	{3, 7, 4, 5},
	{3, 7, 5, 6},
	{3, 5, 4, 0},
	{5, 1, 0, 3},
	{5, 1, 3, 2},
	{3, 5, 2, 6},
}

// tetEdges lists the vertex pairs of the six tetrahedron edges in the
// fixed order {p0p1, p0p2, p0p3, p1p2, p2p3, p3p1}.
var tetEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {2, 3}, {3, 1}}

// caseTable maps the 4-bit inside pattern (p0 is the high bit, inside
// means density < isovalue) to the 6-bit edge-crossing mask. Mask bits
// are written high-to-low in tetEdges order, so bit 5 is edge p0p1.
// Complementary patterns map to the identical mask.
var caseTable = [16]uint8{
	0b0000: 0b000000,
	0b0001: 0b001011,
	0b0010: 0b010110,
	0b0011: 0b011101,
	0b0100: 0b100101,
	0b0101: 0b101110,
	0b0110: 0b110011,
	0b0111: 0b111000,
	0b1000: 0b111000,
	0b1001: 0b110011,
	0b1010: 0b101110,
	0b1011: 0b100101,
	0b1100: 0b011101,
	0b1101: 0b010110,
	0b1110: 0b001011,
	0b1111: 0b000000,
}

// maskTriangles maps an edge-crossing mask to the triangles it
// produces, each as three indices into the edge interpolation points
// (tetEdges order). Only the eight masks reachable through caseTable
// have entries.
var maskTriangles = [1 << 6][][3]int{
	0b001011: {{2, 4, 5}},
	0b010110: {{1, 3, 4}},
	0b011101: {{1, 2, 5}, {1, 5, 3}},
	0b100101: {{0, 3, 5}},
	0b101110: {{0, 2, 4}, {0, 3, 4}},
	0b110011: {{0, 1, 5}, {1, 4, 5}},
	0b111000: {{0, 1, 2}},
}

// maxCellTriangles is the per-voxel output ceiling: six tetrahedra at
// two triangles each.
const maxCellTriangles = 12

// tetra is one of the six sub-volumes of a voxel with per-vertex
// densities.
type tetra struct {
	p [4]r3.Vec
	d [4]float64
}

// caseIndex packs the inside/outside classification of the four
// vertices into the caseTable index.
func (t *tetra) caseIndex(isovalue float64) uint8 {
	var idx uint8
	for i, di := range t.d {
		if di < isovalue {
			idx |= 1 << (3 - i)
		}
	}
	return idx
}

// interpolate returns the point on segment a-b where the linearly
// interpolated density reaches the isovalue. Edges flagged by the case
// table always straddle the isovalue so 0 < t < 1 there; for the
// remaining edges equal densities yield the segment midpoint instead
// of a division by zero.
func interpolate(a, b r3.Vec, da, db, isovalue float64) r3.Vec {
	if da == db {
		return r3.Scale(0.5, r3.Add(a, b))
	}
	t := (isovalue - da) / (db - da)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// marchTetra emits the triangles the isosurface cuts from one
// tetrahedron. dst must have room for at least 2 triangles.
func marchTetra(dst []Triangle3, t tetra, isovalue float64) int {
	mask := caseTable[t.caseIndex(isovalue)]
	if mask == 0 {
		return 0
	}
	var edge [6]r3.Vec
	for i, e := range tetEdges {
		edge[i] = interpolate(t.p[e[0]], t.p[e[1]], t.d[e[0]], t.d[e[1]], isovalue)
	}
	n := 0
	for _, tri := range maskTriangles[mask] {
		dst[n] = Triangle3{edge[tri[0]], edge[tri[1]], edge[tri[2]]}
		n++
	}
	return n
}

// marchtet traverses the field's bounding box in fixed steps and
// triangulates the isosurface cell by cell.
type marchtet struct {
	field    tetmesh.Field3
	isovalue float64
	outside  float64
	step     r3.Vec
	// origin of cell (0,0,0): field minimum minus one step, so cells
	// whose high corners land on the minimum are still visited.
	origin r3.Vec
	// cells per axis and traversal cursor. Cell index increases x
	// fastest, then y, then z.
	nx, ny, nz int
	cell, last int
	unwritten  triangle3Buffer
}

var _ Renderer = (*marchtet)(nil)

// NewTetrahedraRenderer returns a marching tetrahedra Renderer
// extracting the isovalue surface of f with the given cell step. Cells
// whose corners miss the field take the tetmesh.DefaultOutside density.
func NewTetrahedraRenderer(f tetmesh.Field3, step r3.Vec, isovalue float64) *marchtet {
	if d3.LTEZero(step) {
		panic("step sizes must be positive")
	}
	size := d3.Box(f.Bounds()).Size()
	// One cell of overscan below the minimum plus the cell whose
	// origin lands on (or just below) the maximum.
	ncells := func(length, step float64) int {
		return int(math.Floor(length/step+1e-9)) + 2
	}
	m := &marchtet{
		field:     f,
		isovalue:  isovalue,
		outside:   tetmesh.DefaultOutside,
		step:      step,
		origin:    r3.Sub(f.Bounds().Min, step),
		nx:        ncells(size.X, step.X),
		ny:        ncells(size.Y, step.Y),
		nz:        ncells(size.Z, step.Z),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, maxCellTriangles)},
	}
	m.last = m.nx * m.ny * m.nz
	return m
}

// ReadTriangles writes triangles rendered from the field into the
// argument buffer. Returns the number of triangles written and io.EOF
// once the traversal completes.
func (m *marchtet) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if m.unwritten.Len() > 0 {
		n += m.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if m.cell == m.last && m.unwritten.Len() == 0 {
		// io.EOF is never paired with triangles: a read that drains
		// the stream returns its count and EOF follows on the next
		// call.
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	for m.cell < m.last {
		if n+maxCellTriangles > len(dst) {
			// Not enough room for a full cell; spill through the
			// unwritten buffer.
			var tmp [maxCellTriangles]Triangle3
			nt := m.marchCell(tmp[:], m.cell)
			m.cell++
			nw := copy(dst[n:], tmp[:nt])
			m.unwritten.Write(tmp[nw:nt])
			n += nw
			break
		}
		n += m.marchCell(dst[n:], m.cell)
		m.cell++
	}
	return n, nil
}

// marchCell triangulates a single voxel. dst must have room for
// maxCellTriangles.
func (m *marchtet) marchCell(dst []Triangle3, cell int) int {
	ix := cell % m.nx
	iy := (cell / m.nx) % m.ny
	iz := cell / (m.nx * m.ny)
	origin := r3.Add(m.origin, d3.MulElem(m.step, r3.Vec{
		X: float64(ix), Y: float64(iy), Z: float64(iz),
	}))

	var corner [8]r3.Vec
	var density [8]float64
	for i, c := range voxelCorner {
		corner[i] = r3.Add(origin, d3.MulElem(m.step, r3.Vec{X: c[0], Y: c[1], Z: c[2]}))
		d, ok := m.field.Density(corner[i])
		if !ok {
			d = m.outside
		}
		density[i] = d
	}

	n := 0
	for _, tc := range tetCorners {
		var t tetra
		for i, ci := range tc {
			t.p[i] = corner[ci]
			t.d[i] = density[ci]
		}
		n += marchTetra(dst[n:], t, m.isovalue)
	}
	return n
}
