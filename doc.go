// Package tetmesh models volumetric scalar density fields sampled at
// 3D points. The render subpackage extracts triangulated isosurfaces
// from these fields using the marching tetrahedra method.
package tetmesh
