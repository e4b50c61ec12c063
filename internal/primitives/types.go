package primitives

import "dome-viewer/internal/params"

// SolidDef is the YAML definition of a base solid (see solids.yaml).
// Vertices are direction seeds; generation normalizes and scales them to the requested radius.
type SolidDef struct {
	Type     string       `yaml:"type"`
	Vertices [][3]float32 `yaml:"vertices"`
	Faces    [][3]int     `yaml:"faces"`
}

// Geometry is a non-indexed triangle list: every three consecutive vertices form one face.
// Layout matches what the renderer uploads (xyz positions, xyz normals, uv texcoords).
type Geometry struct {
	Kind        params.ShapeKind
	Radius      float32
	Subdivision int
	Positions   []float32
	Normals     []float32
	TexCoords   []float32
}

// VertexCount returns the number of vertices (positions / 3).
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of faces.
func (g *Geometry) TriangleCount() int {
	return g.VertexCount() / 3
}
