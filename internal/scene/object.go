package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/params"
	"dome-viewer/internal/primitives"
)

// Handle identifies a GPU-side resource owned by the Renderer. Zero means no resource.
type Handle uint64

// Renderer is the narrow backend port the manager allocates through.
// Dispose must accept handles it no longer knows about.
type Renderer interface {
	CreateGeometry(g *primitives.Geometry) (Handle, error)
	CreateMaterial(spec MaterialSpec) (Handle, error)
	Dispose(h Handle)
}

// ClippingPlane is shared by every material. Fragments with Normal·p + Constant < 0 are cut away.
// It is updated in place so materials see the new height on the next draw without rebinding.
type ClippingPlane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// Clipped reports whether point p lies on the discarded side of the plane.
func (c *ClippingPlane) Clipped(p mgl32.Vec3) bool {
	return c.Normal.Dot(p)+c.Constant < 0
}

// MaterialSpec describes one material instance.
type MaterialSpec struct {
	Color       color.RGBA
	Roughness   float32
	Metalness   float32
	Opacity     float32
	Transparent bool
	Wireframe   bool
	// FlatShading is on for solid rendering and off in wireframe-only mode.
	FlatShading bool
	DoubleSided bool
	Clip        *ClippingPlane
	ClipShadows bool
}

// Variant tells which kind of object is active.
type Variant int

const (
	VariantNone Variant = iota
	VariantDome
	VariantModel
)

func (v Variant) String() string {
	switch v {
	case VariantNone:
		return "none"
	case VariantDome:
		return "dome"
	case VariantModel:
		return "model"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Object is the active visual object: exactly one of *Dome or *Model.
type Object interface {
	Variant() Variant
	// Handles lists every resource the object owns.
	Handles() []Handle
	spinBy(delta float32)
}

// Dome is the generated polyhedron.
type Dome struct {
	Geometry    Handle
	Material    Handle
	Kind        params.ShapeKind
	Radius      float32
	Subdivision int
	Vertices    int
	Position    mgl32.Vec3
	Spin        float32
}

func (d *Dome) Variant() Variant { return VariantDome }

func (d *Dome) Handles() []Handle { return []Handle{d.Geometry, d.Material} }

func (d *Dome) spinBy(delta float32) { d.Spin = wrapSpin(d.Spin + delta) }

// Matrix is the dome's world transform.
func (d *Dome) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(d.Position[0], d.Position[1], d.Position[2]).Mul4(mgl32.HomogRotate3DY(d.Spin))
}

// Part is one submesh of a loaded model with its own material.
type Part struct {
	Geometry Handle
	Material Handle
	Tint     color.RGBA
}

// Model is an externally decoded mesh. Its geometry is fixed after load; the baseline fields are
// derived once from the union bounding box.
type Model struct {
	Name            string
	Parts           []Part
	OriginalCenter  mgl32.Vec3
	InitialScale    float32
	BasePosition    mgl32.Vec3
	InitialRotation mgl32.Vec3
	Spin            float32
}

func (m *Model) Variant() Variant { return VariantModel }

func (m *Model) Handles() []Handle {
	out := make([]Handle, 0, len(m.Parts)*2)
	for _, p := range m.Parts {
		out = append(out, p.Geometry, p.Material)
	}
	return out
}

func (m *Model) spinBy(delta float32) { m.Spin = wrapSpin(m.Spin + delta) }

// Matrix composes the baseline with the user offsets:
// T(base+offset) · R(initial+rotation) · Ry(spin) · S(initialScale·scale) · T(-center).
func (m *Model) Matrix(t params.Transform) mgl32.Mat4 {
	pos := m.BasePosition.Add(mgl32.Vec3(t.Position))
	rot := m.InitialRotation.Add(mgl32.Vec3(t.Rotation))
	s := m.InitialScale * t.Scale
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(eulerXYZ(rot)).
		Mul4(mgl32.HomogRotate3DY(m.Spin)).
		Mul4(mgl32.Scale3D(s, s, s)).
		Mul4(mgl32.Translate3D(-m.OriginalCenter[0], -m.OriginalCenter[1], -m.OriginalCenter[2]))
}

func eulerXYZ(r mgl32.Vec3) mgl32.Mat4 {
	q := mgl32.QuatRotate(r[0], mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(r[1], mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(r[2], mgl32.Vec3{0, 0, 1}))
	return q.Mat4()
}

func wrapSpin(a float32) float32 {
	for a >= params.TwoPi {
		a -= params.TwoPi
	}
	for a < 0 {
		a += params.TwoPi
	}
	return a
}

// DecodedMesh is what the asset side hands over after decoding a mesh file.
// Geometry handles were already created by the Renderer and become owned by the Model.
type DecodedMesh struct {
	Name      string
	Submeshes []Submesh
}

// Submesh carries one geometry slot plus its decoded base colour and local bounds.
type Submesh struct {
	Geometry  Handle
	BaseColor color.RGBA
	Min, Max  mgl32.Vec3
}

// Bounds returns the union bounding box of every submesh.
func (d *DecodedMesh) Bounds() (min, max mgl32.Vec3) {
	for i, s := range d.Submeshes {
		if i == 0 {
			min, max = s.Min, s.Max
			continue
		}
		for k := 0; k < 3; k++ {
			if s.Min[k] < min[k] {
				min[k] = s.Min[k]
			}
			if s.Max[k] > max[k] {
				max[k] = s.Max[k]
			}
		}
	}
	return min, max
}

// Drawable is one geometry/material pair with its world transform, in draw order.
type Drawable struct {
	Geometry Handle
	Material Handle
	Matrix   mgl32.Mat4
}
