package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// CreateSTL renders a surface to a binary STL file using a Renderer.
func CreateSTL(path string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return WriteSTL(fp, model)
}

// WriteSTL writes model triangles to a writer in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{
		Count: uint32(len(model)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var d stlTriangle
	var b [stlTriangleSize]byte
	for _, triangle := range model {
		n := triangle.Normal()
		d.Normal = f32Vec(n)
		d.Vertex1 = f32Vec(triangle[0])
		d.Vertex2 = f32Vec(triangle[1])
		d.Vertex3 = f32Vec(triangle[2])
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const stlTriangleSize = 50

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported.
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	return nil
}

func (t stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{
		r3From3F32(t.Vertex1),
		r3From3F32(t.Vertex2),
		r3From3F32(t.Vertex3),
	}
}

func f32Vec(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

// readBinarySTL reads a binary STL stream back into triangles.
func readBinarySTL(r io.Reader) (output []Triangle3, err error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf [stlTriangleSize]byte
		d   stlTriangle
	)
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		output = append(output, d.toTriangle3())
	}
	return output, nil
}
