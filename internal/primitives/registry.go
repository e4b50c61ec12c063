package primitives

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"dome-viewer/internal/params"
)

//go:embed solids.yaml
var solidsYAML []byte

// ErrUnsupportedKind is returned for any shape kind without a base solid.
var ErrUnsupportedKind = errors.New("unsupported shape kind")

// solidNames maps supported kinds to their definition type in solids.yaml.
var solidNames = map[params.ShapeKind]string{
	params.Icosahedral: "icosahedron",
	params.Octahedral:  "octahedron",
}

// Registry maps shape kinds to base solids and generates subdivided geometry from them.
// Definitions are parsed once; the unit-sphere projection of each solid is done on first use.
type Registry struct {
	defs map[string]SolidDef
}

// NewRegistry parses the embedded base solids.
func NewRegistry() (*Registry, error) {
	return ParseSolids(solidsYAML)
}

// ParseSolids builds a registry from YAML solid definitions.
func ParseSolids(data []byte) (*Registry, error) {
	var defs []SolidDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("primitives: parse solids: %w", err)
	}
	r := &Registry{defs: make(map[string]SolidDef, len(defs))}
	for _, d := range defs {
		for _, f := range d.Faces {
			for _, idx := range f {
				if idx < 0 || idx >= len(d.Vertices) {
					return nil, fmt.Errorf("primitives: solid %q: face index %d out of range", d.Type, idx)
				}
			}
		}
		r.defs[d.Type] = d
	}
	return r, nil
}

// Supported reports whether kind has a base solid.
func (r *Registry) Supported(kind params.ShapeKind) bool {
	_, ok := r.def(kind)
	return ok
}

func (r *Registry) def(kind params.ShapeKind) (SolidDef, bool) {
	name, ok := solidNames[kind]
	if !ok {
		return SolidDef{}, false
	}
	d, ok := r.defs[name]
	return d, ok
}

// FaceCount returns how many faces the base solid of kind has, or 0 when unsupported.
func (r *Registry) FaceCount(kind params.ShapeKind) int {
	d, _ := r.def(kind)
	return len(d.Faces)
}

// VertexCount is the closed-form vertex count of Generate: every base face splits into
// (subdivision+1)² triangles of three unshared vertices.
func (r *Registry) VertexCount(kind params.ShapeKind, subdivision int) int {
	n := subdivision + 1
	return r.FaceCount(kind) * n * n * 3
}

// Generate builds the polyhedral dome for (kind, radius, subdivision). Positions lie on the sphere of
// the given radius. With subdivision 0 normals are per face; otherwise they point away from the center.
func (r *Registry) Generate(kind params.ShapeKind, radius float32, subdivision int) (*Geometry, error) {
	d, ok := r.def(kind)
	if !ok {
		return nil, fmt.Errorf("primitives: %v: %w", kind, ErrUnsupportedKind)
	}
	if subdivision < 0 {
		subdivision = 0
	}
	n := r.VertexCount(kind, subdivision)
	g := &Geometry{
		Kind:        kind,
		Radius:      radius,
		Subdivision: subdivision,
		Positions:   make([]float32, 0, n*3),
		Normals:     make([]float32, 0, n*3),
		TexCoords:   make([]float32, 0, n*2),
	}
	emit := func(v [3]float32) {
		u := normalize(v)
		g.Positions = append(g.Positions, u[0]*radius, u[1]*radius, u[2]*radius)
		g.TexCoords = append(g.TexCoords, sphericalUV(u)...)
	}
	for _, f := range d.Faces {
		subdivideFace(d.Vertices[f[0]], d.Vertices[f[1]], d.Vertices[f[2]], subdivision, emit)
	}
	if subdivision == 0 {
		g.Normals = faceNormals(g.Positions)
	} else {
		for i := 0; i < len(g.Positions); i += 3 {
			u := normalize([3]float32{g.Positions[i], g.Positions[i+1], g.Positions[i+2]})
			g.Normals = append(g.Normals, u[0], u[1], u[2])
		}
	}
	return g, nil
}

// subdivideFace splits triangle (a, b, c) into a grid of (detail+1)² triangles, row by row from a/b
// towards c, emitting three vertices per triangle.
func subdivideFace(a, b, c [3]float32, detail int, emit func([3]float32)) {
	cols := detail + 1
	grid := make([][][3]float32, cols+1)
	for i := 0; i <= cols; i++ {
		t := float32(i) / float32(cols)
		ai := lerp(a, c, t)
		bi := lerp(b, c, t)
		rows := cols - i
		grid[i] = make([][3]float32, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				grid[i][j] = ai
				continue
			}
			grid[i][j] = lerp(ai, bi, float32(j)/float32(rows))
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				emit(grid[i][k+1])
				emit(grid[i+1][k])
				emit(grid[i][k])
			} else {
				emit(grid[i][k+1])
				emit(grid[i+1][k+1])
				emit(grid[i+1][k])
			}
		}
	}
}

func lerp(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// sphericalUV maps a unit direction to equirectangular texture coordinates.
func sphericalUV(u [3]float32) []float32 {
	azimuth := math32.Atan2(u[2], -u[0])
	inclination := math32.Atan2(-u[1], math32.Hypot(u[0], u[2]))
	return []float32{azimuth/(2*math32.Pi) + 0.5, inclination/math32.Pi + 0.5}
}

// faceNormals returns one normal per vertex, shared by the three vertices of each face.
func faceNormals(pos []float32) []float32 {
	out := make([]float32, 0, len(pos))
	for i := 0; i+8 < len(pos); i += 9 {
		a := [3]float32{pos[i], pos[i+1], pos[i+2]}
		b := [3]float32{pos[i+3], pos[i+4], pos[i+5]}
		c := [3]float32{pos[i+6], pos[i+7], pos[i+8]}
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := normalize([3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		})
		out = append(out, n[0], n[1], n[2], n[0], n[1], n[2], n[0], n[1], n[2])
	}
	return out
}
