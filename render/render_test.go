package render_test

import (
	"io"
	"math/rand"
	"os"
	"testing"

	sdfxrender "github.com/deadsy/sdfx/render"
	sdfxsdf "github.com/deadsy/sdfx/sdf"
	"github.com/tetmesh/tetmesh"
	"github.com/tetmesh/tetmesh/internal/d3"
	"github.com/tetmesh/tetmesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const sphereRadius = 5.0

// sphereField samples a radial density over a gridded cube so that the
// isovalue-1 surface is a sphere of sphereRadius.
func sphereField(t testing.TB) *tetmesh.PointField {
	samples := tetmesh.SampleFunc(
		r3.Box{Min: d3.Elem(-8), Max: d3.Elem(8)},
		d3.Elem(1),
		func(p r3.Vec) float64 { return r3.Norm(p) / sphereRadius },
	)
	field, err := tetmesh.NewPointField(samples)
	if err != nil {
		t.Fatal(err)
	}
	return field
}

func TestSphereSurface(t *testing.T) {
	field := sphereField(t)
	model, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("sphere surface produced no triangles")
	}
	// 17 samples per axis means 19 cells per axis including overscan,
	// each emitting at most 12 triangles.
	const maxTriangles = 19 * 19 * 19 * 12
	if len(model) > maxTriangles {
		t.Fatalf("got %d triangles, exceeds cell budget %d", len(model), maxTriangles)
	}
	for i, tri := range model {
		for _, v := range tri {
			// Interpolated vertices stay near the sphere surface on
			// gridded input: each lies on a cell edge crossing it.
			r := r3.Norm(v)
			if r < sphereRadius-2 || r > sphereRadius+2 {
				t.Fatalf("triangle %d vertex %v at radius %g, far off the surface", i, v, r)
			}
		}
	}
}

func TestTraversalIdempotence(t *testing.T) {
	field := sphereField(t)
	first, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("triangle counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("triangle %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestSmallReadBuffer drains the renderer through a buffer smaller
// than one cell's worst case, exercising the spill path.
func TestSmallReadBuffer(t *testing.T) {
	field := sphereField(t)
	want, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 1))
	if err != nil {
		t.Fatal(err)
	}
	m := render.NewTetrahedraRenderer(field, d3.Elem(1), 1)
	var got []render.Triangle3
	buf := make([]render.Triangle3, 5)
	for {
		n, err := m.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}
	if len(got) != len(want) {
		t.Fatalf("small-buffer read lost triangles: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("triangle %d differs: %+v vs %+v", i, got[i], want[i])
		}
	}
}

// TestReadTrianglesBufferSizes drains random fields through buffers
// of awkward sizes. Every drain must yield the same triangle sequence
// and ReadTriangles must never pair triangles with io.EOF: a loop that
// appends only on nil error (the RenderAll pattern) would otherwise
// lose the final spilled triangles.
func TestReadTrianglesBufferSizes(t *testing.T) {
	for seed := int64(0); seed < 8; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		samples := tetmesh.AddRandomDensity(tetmesh.RandomGrid(3, 3, 3), rnd)
		field, err := tetmesh.NewPointField(samples)
		if err != nil {
			t.Fatal(err)
		}
		want, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 0.5))
		if err != nil {
			t.Fatal(err)
		}
		if len(want) == 0 {
			t.Fatalf("seed %d: random field produced no triangles", seed)
		}
		for _, size := range []int{1, 2, 3, 5, 11, 12, 13, 64, 1024} {
			m := render.NewTetrahedraRenderer(field, d3.Elem(1), 0.5)
			buf := make([]render.Triangle3, size)
			var got []render.Triangle3
			for {
				nt, err := m.ReadTriangles(buf)
				if err == io.EOF {
					if nt != 0 {
						t.Fatalf("seed %d size %d: ReadTriangles returned %d triangles with io.EOF", seed, size, nt)
					}
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, buf[:nt]...)
			}
			if len(got) != len(want) {
				t.Fatalf("seed %d size %d: drained %d triangles, want %d", seed, size, len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("seed %d size %d: triangle %d differs", seed, size, i)
				}
			}
		}
	}
}

func BenchmarkSphere(b *testing.B) {
	field := sphereField(b)
	for i := 0; i < b.N; i++ {
		_, err := render.RenderAll(render.NewTetrahedraRenderer(field, d3.Elem(1), 1))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSDFXSphere(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	const output = "sdfx_sphere.stl"
	defer os.Remove(output)
	object, _ := sdfxsdf.Sphere3D(sphereRadius)
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(object, 16, output, &sdfxrender.MarchingCubesOctree{})
	}
}
