package render

// Renderer produces a stream of triangles approximating a surface.
type Renderer interface {
	// ReadTriangles writes triangles into t and returns the number
	// written. It returns io.EOF once the surface is exhausted.
	ReadTriangles(t []Triangle3) (int, error)
}
