package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/tetmesh/tetmesh"
	"github.com/tetmesh/tetmesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		gridN = flag.Int("grid", 32, "synthetic grid size per axis when no input file is given")
		iso   = flag.Float64("iso", 0.5, "isovalue defining the surface")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random density seed")
	)
	flag.Parse()
	var input, output string
	switch flag.NArg() {
	case 1:
		output = flag.Arg(0)
	case 2:
		input, output = flag.Arg(0), flag.Arg(1)
	default:
		return fmt.Errorf("usage: %s [flags] [input.txt] output.{ply,stl}", filepath.Base(os.Args[0]))
	}
	rnd := rand.New(rand.NewSource(*seed))

	start := time.Now()
	var pts []r3.Vec
	var err error
	if input != "" {
		pts, err = tetmesh.ReadPoints(input)
		if err != nil {
			return err
		}
	} else {
		pts = tetmesh.RandomGrid(*gridN, *gridN, *gridN)
	}
	samples := tetmesh.AddRandomDensity(pts, rnd)
	fmt.Printf("Number of points: %d\n", len(pts))
	fmt.Printf("Pointcloud generation time: %v\n", time.Since(start))

	start = time.Now()
	field, err := tetmesh.NewPointField(samples)
	if err != nil {
		return err
	}
	step := r3.Vec{X: 1, Y: 1, Z: 1}
	if input != "" {
		step = field.GridStep()
	}
	fmt.Printf("Voxel size calculation time: %v\n", time.Since(start))

	start = time.Now()
	model, err := render.RenderAll(render.NewTetrahedraRenderer(field, step, *iso))
	if err != nil {
		return err
	}
	fmt.Printf("Marching tetrahedra time: %v\n", time.Since(start))
	fmt.Printf("Number of triangles: %d\n", len(model))

	start = time.Now()
	fp, err := os.Create(output)
	if err != nil {
		return err
	}
	defer fp.Close()
	if filepath.Ext(output) == ".stl" {
		err = render.WriteSTL(fp, model)
	} else {
		err = render.WritePLY(fp, model)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Serialization time: %v\n", time.Since(start))
	return nil
}
