package tetmesh

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point-cloud collaborators: synthetic grid generation, random density
// tagging and text-file ingestion. These feed a PointField; the
// marching core never touches files or RNGs.

// RandomGrid returns a unit-spaced nx*ny*nz grid of points with its
// minimum corner at the origin.
func RandomGrid(nx, ny, nz int) []r3.Vec {
	pts := make([]r3.Vec, 0, nx*ny*nz)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				pts = append(pts, r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}
	return pts
}

// AddRandomDensity tags each point with a density drawn uniformly from
// [0, 1).
func AddRandomDensity(pts []r3.Vec, rnd *rand.Rand) []Sample {
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: p, Density: rnd.Float64()}
	}
	return samples
}

// SampleFunc evaluates f on a regular grid over bb with the given step
// and returns the resulting samples. The grid includes bb.Max when the
// box size is a multiple of the step.
func SampleFunc(bb r3.Box, step r3.Vec, f func(r3.Vec) float64) []Sample {
	var samples []Sample
	for z := bb.Min.Z; z <= bb.Max.Z+posQuantum; z += step.Z {
		for y := bb.Min.Y; y <= bb.Max.Y+posQuantum; y += step.Y {
			for x := bb.Min.X; x <= bb.Max.X+posQuantum; x += step.X {
				p := r3.Vec{X: x, Y: y, Z: z}
				samples = append(samples, Sample{Pos: p, Density: f(p)})
			}
		}
	}
	return samples
}

// ReadPoints parses a text point cloud: one "x y z" row per line,
// whitespace separated. Blank lines and lines starting with '#' are
// skipped.
func ReadPoints(path string) ([]r3.Vec, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var pts []r3.Vec
	sc := bufio.NewScanner(fp)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: want 3 coordinates, got %d", path, line, len(fields))
		}
		var v [3]float64
		for i := 0; i < 3; i++ {
			v[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		}
		pts = append(pts, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pts, nil
}
