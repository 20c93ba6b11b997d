package tetmesh_test

import (
	"math/rand"
	"testing"

	"github.com/tetmesh/tetmesh"
	"github.com/tetmesh/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPointFieldLookup(t *testing.T) {
	samples := []tetmesh.Sample{
		{Pos: r3.Vec{}, Density: 0.25},
		{Pos: r3.Vec{X: 1}, Density: 0.5},
		{Pos: r3.Vec{X: 1, Y: 2, Z: 3}, Density: 0.75},
	}
	field, err := tetmesh.NewPointField(samples)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := field.Density(r3.Vec{X: 1}); !ok || got != 0.5 {
		t.Errorf("exact lookup: got (%g, %t), want (0.5, true)", got, ok)
	}
	// Corners computed as min + k*step carry float rounding; the
	// quantized key must absorb it.
	if got, ok := field.Density(r3.Vec{X: 1 + 1e-9, Y: 2 - 1e-9, Z: 3}); !ok || got != 0.75 {
		t.Errorf("quantized lookup: got (%g, %t), want (0.75, true)", got, ok)
	}
	if _, ok := field.Density(r3.Vec{X: 9}); ok {
		t.Error("lookup of unsampled position reported ok")
	}
	bb := field.Bounds()
	if bb.Min != (r3.Vec{}) || bb.Max != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("bounds %+v, want origin to (1,2,3)", bb)
	}
	if field.Len() != len(samples) {
		t.Errorf("Len() = %d, want %d", field.Len(), len(samples))
	}
}

func TestPointFieldEmpty(t *testing.T) {
	if _, err := tetmesh.NewPointField(nil); err == nil {
		t.Error("want error for empty sample set")
	}
}

func TestGridStep(t *testing.T) {
	var samples []tetmesh.Sample
	for _, x := range []float64{0, 0.5, 1} {
		for _, y := range []float64{0, 2} {
			samples = append(samples, tetmesh.Sample{Pos: r3.Vec{X: x, Y: y, Z: 3}})
		}
	}
	field, err := tetmesh.NewPointField(samples)
	if err != nil {
		t.Fatal(err)
	}
	// Flat z axis falls back to unit spacing.
	want := r3.Vec{X: 0.5, Y: 2, Z: 1}
	if got := field.GridStep(); !d3.EqualWithin(got, want, 1e-12) {
		t.Errorf("GridStep() = %+v, want %+v", got, want)
	}
}

func TestNearestField(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	box := d3.Box{Min: d3.Elem(-4), Max: d3.Elem(4)}
	pts := box.RandomSet(64, rnd)
	samples := tetmesh.AddRandomDensity(pts, rnd)
	field := tetmesh.NewNearestField(samples)

	for _, s := range samples[:8] {
		// Query slightly off a sample: the nearest sample wins.
		q := r3.Add(s.Pos, d3.Elem(1e-9))
		got, ok := field.Density(q)
		if !ok {
			t.Fatal("nearest field must always resolve")
		}
		if got != s.Density {
			t.Errorf("density near %v = %g, want %g", s.Pos, got, s.Density)
		}
	}
	// Brute-force cross-check at arbitrary query points.
	for _, q := range box.RandomSet(16, rnd) {
		got, _ := field.Density(q)
		best := samples[0]
		for _, s := range samples[1:] {
			if r3.Norm2(r3.Sub(q, s.Pos)) < r3.Norm2(r3.Sub(q, best.Pos)) {
				best = s
			}
		}
		if got != best.Density {
			t.Errorf("density at %v = %g, want nearest sample density %g", q, got, best.Density)
		}
	}
}
