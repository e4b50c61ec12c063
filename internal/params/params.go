package params

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
)

// Bounds for the live-editable values. Out-of-range input is clamped, never rejected.
const (
	MinRadius      = 0.1
	MaxRadius      = 5.0
	MinSubdivision = 0
	MaxSubdivision = 30
	MinOffset      = -5.0
	MaxOffset      = 5.0
	MinScale       = 0.1
	MaxScale       = 5.0
)

// TwoPi is the upper bound of every rotation offset.
const TwoPi = 2 * math32.Pi

// ShapeKind selects the base polyhedron of the dome. Only Icosahedral and Octahedral are generated;
// any other value is carried as-is so the generator can report it.
type ShapeKind int

const (
	Icosahedral ShapeKind = iota
	Octahedral
)

func (k ShapeKind) String() string {
	switch k {
	case Icosahedral:
		return "icosahedron"
	case Octahedral:
		return "octahedron"
	}
	return fmt.Sprintf("shape(%d)", int(k))
}

// ParseShapeKind maps a config name to a kind. Unknown names yield an unsupported kind and ok false.
func ParseShapeKind(name string) (ShapeKind, bool) {
	switch name {
	case "icosahedron", "icosahedral":
		return Icosahedral, true
	case "octahedron", "octahedral":
		return Octahedral, true
	}
	return ShapeKind(-1), false
}

// Shape drives dome generation.
type Shape struct {
	Radius        float32
	Subdivision   int
	Kind          ShapeKind
	ClipHeight    float32
	WireframeOnly bool
}

// Material drives every material the active object owns, plus the per-tick spin.
type Material struct {
	Roughness float32
	Metalness float32
	Opacity   float32
	// RotationSpeed is read by the frame loop each tick; it never triggers regeneration.
	RotationSpeed float32
	BaseColor     color.RGBA
}

// Transform offsets a loaded model from its load-time baseline. Ignored while the dome is active.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    float32
}

// DefaultShape matches the startup dome: radius 1.5, two subdivisions, icosahedron, plane at 0.
func DefaultShape() Shape {
	return Shape{Radius: 1.5, Subdivision: 2, Kind: Icosahedral}
}

// DefaultMaterial is a glassy, slightly metallic surface spinning at the startup speed.
func DefaultMaterial() Material {
	return Material{
		Roughness:     0,
		Metalness:     0.25,
		Opacity:       1,
		RotationSpeed: 0.01,
		BaseColor:     color.RGBA{R: 0x00, G: 0x77, B: 0xff, A: 0xff},
	}
}

// DefaultTransform leaves a loaded model at its baseline.
func DefaultTransform() Transform {
	return Transform{Scale: 1}
}

// Palette is the fixed rotation used by the color widget.
var Palette = []color.RGBA{
	{R: 0x00, G: 0x77, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x55, B: 0x33, A: 0xff},
	{R: 0x33, G: 0xdd, B: 0x66, A: 0xff},
	{R: 0xff, G: 0xcc, B: 0x00, A: 0xff},
	{R: 0xaa, G: 0x55, B: 0xff, A: 0xff},
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapAngle folds a into [0, 2π].
func wrapAngle(a float32) float32 {
	if a >= 0 && a <= TwoPi {
		return a
	}
	a = math32.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// round6 snaps accumulated step arithmetic so repeated ±0.1 edits land exactly on the bounds.
func round6(v float32) float32 {
	return math32.Round(v*1e6) / 1e6
}
