package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
)

// PLY polygon mesh output. Triangles are written as three vertices per
// face with no vertex deduplication: coincident vertices of adjacent
// cells stay distinct, matching the traversal's output model.

// CreatePLY renders a surface to an ascii PLY file using a Renderer.
func CreatePLY(path string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return WritePLY(fp, model)
}

// WritePLY writes model triangles to w in ascii PLY format.
func WritePLY(w io.Writer, model []Triangle3) error {
	if err := validateModel(model); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	writePLYHeader(bw, len(model), "ascii")
	for _, t := range model {
		for _, v := range t {
			fmt.Fprintf(bw, "%g %g %g\n", float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	for i := range model {
		fmt.Fprintf(bw, "3 %d %d %d\n", 3*i, 3*i+1, 3*i+2)
	}
	return bw.Flush()
}

// WritePLYBinary writes model triangles to w in binary little-endian
// PLY format.
func WritePLYBinary(w io.Writer, model []Triangle3) error {
	if err := validateModel(model); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	writePLYHeader(bw, len(model), "binary_little_endian")
	var b [12]byte
	for _, t := range model {
		for _, v := range t {
			put3F32(b[:], [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
			if _, err := bw.Write(b[:]); err != nil {
				return err
			}
		}
	}
	for i := range model {
		bw.WriteByte(3)
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint32(b[:4], uint32(3*i+j))
			if _, err := bw.Write(b[:4]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writePLYHeader(w io.Writer, faces int, format string) {
	fmt.Fprintf(w, "ply\nformat %s 1.0\n", format)
	fmt.Fprintf(w, "element vertex %d\n", 3*faces)
	fmt.Fprint(w, "property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(w, "element face %d\n", faces)
	fmt.Fprint(w, "property list uchar int vertex_indices\nend_header\n")
}

func validateModel(model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	for i, t := range model {
		for _, v := range t {
			f := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
			if bad3F32(f) {
				return fmt.Errorf("triangle %d has inf/NaN vertex", i)
			}
		}
	}
	return nil
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}
