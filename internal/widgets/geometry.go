package widgets

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the presentation mode: a flat window or an immersive head-mounted view.
type Mode int

const (
	Flat Mode = iota
	Immersive
)

func (m Mode) String() string {
	switch m {
	case Flat:
		return "flat"
	case Immersive:
		return "immersive"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps "flat" and "immersive" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "flat":
		return Flat, nil
	case "immersive":
		return Immersive, nil
	}
	return Flat, fmt.Errorf("widgets: unknown presentation mode %q", s)
}

// Pose is a viewpoint: position plus orientation. The viewer looks down -Z of its own frame.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// NewPose builds a pose from yaw (around +Y) and pitch (around the rotated +X), in radians.
func NewPose(pos mgl32.Vec3, yaw, pitch float32) Pose {
	q := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	return Pose{Position: pos, Orientation: q.Normalize()}
}

// Forward is the viewing direction in world space.
func (p Pose) Forward() mgl32.Vec3 {
	return p.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Up is the viewer's up vector in world space.
func (p Pose) Up() mgl32.Vec3 {
	return p.Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Apply maps an offset in the viewer frame to world space: rotate by the viewer orientation,
// then translate by the viewer position.
func (p Pose) Apply(offset mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(offset))
}

// Ray is a half-line. Direction is unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// GazeRay points straight ahead from the pose, as a controller held at the eyes would.
func GazeRay(p Pose) Ray {
	return Ray{Origin: p.Position, Direction: p.Forward().Normalize()}
}

// PointerRay casts a ray through normalized device coordinates (x, y in [-1, 1], +y up) of a
// perspective camera at pose with vertical field of view fovY (radians).
func PointerRay(p Pose, x, y, fovY, aspect float32) Ray {
	h := math32.Tan(fovY / 2)
	dir := mgl32.Vec3{x * h * aspect, y * h, -1}.Normalize()
	return Ray{Origin: p.Position, Direction: p.Orientation.Rotate(dir).Normalize()}
}

// intersectQuad returns the distance along r to a w×h rectangle centered at center, facing +Z of
// orientation. Hits behind the origin do not count.
func intersectQuad(r Ray, center mgl32.Vec3, orientation mgl32.Quat, w, h float32) (float32, bool) {
	normal := orientation.Rotate(mgl32.Vec3{0, 0, 1})
	denom := normal.Dot(r.Direction)
	if math32.Abs(denom) < 1e-6 {
		return 0, false
	}
	t := center.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false
	}
	hit := r.Origin.Add(r.Direction.Mul(t))
	local := orientation.Inverse().Rotate(hit.Sub(center))
	if math32.Abs(local[0]) > w/2 || math32.Abs(local[1]) > h/2 {
		return 0, false
	}
	return t, true
}
