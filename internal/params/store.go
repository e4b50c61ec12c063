package params

import (
	"fmt"
	"image/color"

	"github.com/jinzhu/copier"
)

// Change tells listeners which part of the model moved so they can pick the cheapest reaction.
type Change int

const (
	// ShapeChanged means geometry must be rebuilt.
	ShapeChanged Change = iota
	// MaterialChanged means materials must be rebuilt; geometry is untouched.
	MaterialChanged
	// ClippingChanged only moves the shared clipping plane.
	ClippingChanged
	// TransformChanged only moves a loaded model.
	TransformChanged
	// SpeedChanged is informational; the frame loop reads the speed every tick.
	SpeedChanged
)

func (c Change) String() string {
	switch c {
	case ShapeChanged:
		return "shape"
	case MaterialChanged:
		return "material"
	case ClippingChanged:
		return "clipping"
	case TransformChanged:
		return "transform"
	case SpeedChanged:
		return "speed"
	}
	return fmt.Sprintf("change(%d)", int(c))
}

// Field names a single adjustable value. Widget actions refer to fields by these names.
type Field string

const (
	Radius        Field = "radius"
	Subdivision   Field = "subdivision"
	ClipHeight    Field = "clip_height"
	Roughness     Field = "roughness"
	Metalness     Field = "metalness"
	Opacity       Field = "opacity"
	RotationSpeed Field = "rotation_speed"
	PositionX     Field = "position_x"
	PositionY     Field = "position_y"
	PositionZ     Field = "position_z"
	RotationX     Field = "rotation_x"
	RotationY     Field = "rotation_y"
	RotationZ     Field = "rotation_z"
	ScaleFactor   Field = "scale"
)

// Fields lists every adjustable field, in record order.
var Fields = []Field{
	Radius, Subdivision, ClipHeight,
	Roughness, Metalness, Opacity, RotationSpeed,
	PositionX, PositionY, PositionZ, RotationX, RotationY, RotationZ, ScaleFactor,
}

// Store owns the three parameter records. Setters clamp and then notify listeners
// when the stored value actually changed. It is not safe for concurrent use; every
// mutation happens on the frame-loop goroutine.
type Store struct {
	shape     Shape
	material  Material
	transform Transform
	colorIdx  int
	listeners []func(Change)
}

// NewStore returns a store seeded with the given records, clamped into range.
func NewStore(shape Shape, material Material) *Store {
	s := &Store{transform: DefaultTransform()}
	s.shape = clampShape(shape)
	s.material = clampMaterial(material)
	for i, c := range Palette {
		if c == s.material.BaseColor {
			s.colorIdx = i
		}
	}
	return s
}

// OnChange registers fn to run after every effective mutation.
func (s *Store) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}

// Shape returns the current dome geometry parameters.
func (s *Store) Shape() Shape { return s.shape }

// Material returns the current surface parameters.
func (s *Store) Material() Material { return s.material }

// Transform returns the current model offsets.
func (s *Store) Transform() Transform { return s.transform }

// Snapshot is a detached copy of every record, handed to readers that must not see later edits.
type Snapshot struct {
	Shape     Shape
	Material  Material
	Transform Transform
}

// Snapshot deep-copies the current records.
func (s *Store) Snapshot() Snapshot {
	var out Snapshot
	src := Snapshot{Shape: s.shape, Material: s.material, Transform: s.transform}
	if err := copier.CopyWithOption(&out, &src, copier.Option{DeepCopy: true}); err != nil {
		return src
	}
	return out
}

func clampShape(sh Shape) Shape {
	sh.Radius = clamp(sh.Radius, MinRadius, MaxRadius)
	sh.Subdivision = clampInt(sh.Subdivision, MinSubdivision, MaxSubdivision)
	sh.ClipHeight = clamp(sh.ClipHeight, -sh.Radius, sh.Radius)
	return sh
}

func clampMaterial(m Material) Material {
	m.Roughness = clamp(m.Roughness, 0, 1)
	m.Metalness = clamp(m.Metalness, 0, 1)
	m.Opacity = clamp(m.Opacity, 0, 1)
	return m
}

// SetRadius clamps r into [MinRadius, MaxRadius] and re-clamps the clipping height to the new radius.
func (s *Store) SetRadius(r float32) {
	next := s.shape
	next.Radius = round6(r)
	s.setShape(next)
}

// SetSubdivision clamps n into [MinSubdivision, MaxSubdivision].
func (s *Store) SetSubdivision(n int) {
	next := s.shape
	next.Subdivision = n
	s.setShape(next)
}

// SetKind stores k without validation; generation reports unsupported kinds.
func (s *Store) SetKind(k ShapeKind) {
	next := s.shape
	next.Kind = k
	s.setShape(next)
}

// ToggleKind flips between the two supported kinds. An unsupported kind becomes Icosahedral.
func (s *Store) ToggleKind() {
	k := Icosahedral
	if s.shape.Kind == Icosahedral {
		k = Octahedral
	}
	s.SetKind(k)
}

// SetWireframe switches between wireframe-only and solid rendering.
func (s *Store) SetWireframe(on bool) {
	next := s.shape
	next.WireframeOnly = on
	s.setShape(next)
}

// ToggleWireframe flips wireframe-only rendering.
func (s *Store) ToggleWireframe() {
	s.SetWireframe(!s.shape.WireframeOnly)
}

func (s *Store) setShape(next Shape) {
	next = clampShape(next)
	if next == s.shape {
		return
	}
	prev := s.shape
	s.shape = next
	if onlyClipMoved(prev, next) {
		s.notify(ClippingChanged)
		return
	}
	s.notify(ShapeChanged)
}

func onlyClipMoved(a, b Shape) bool {
	a.ClipHeight = b.ClipHeight
	return a == b
}

// SetClipHeight clamps h into [-radius, radius]. Only the shared plane moves.
func (s *Store) SetClipHeight(h float32) {
	next := s.shape
	next.ClipHeight = round6(h)
	s.setShape(next)
}

// SetRoughness sets the surface roughness, clamped to [0, 1].
func (s *Store) SetRoughness(v float32) { s.setMaterial(func(m *Material) { m.Roughness = round6(v) }) }

// SetMetalness sets the surface metalness, clamped to [0, 1].
func (s *Store) SetMetalness(v float32) { s.setMaterial(func(m *Material) { m.Metalness = round6(v) }) }

// SetOpacity sets the surface opacity, clamped to [0, 1].
func (s *Store) SetOpacity(v float32) { s.setMaterial(func(m *Material) { m.Opacity = round6(v) }) }

// SetBaseColor replaces the base color.
func (s *Store) SetBaseColor(c color.RGBA) {
	s.setMaterial(func(m *Material) { m.BaseColor = c })
}

// CycleColor advances the base color through Palette.
func (s *Store) CycleColor() {
	s.colorIdx = (s.colorIdx + 1) % len(Palette)
	s.SetBaseColor(Palette[s.colorIdx])
}

// SetRotationSpeed is unclamped and never triggers regeneration.
func (s *Store) SetRotationSpeed(v float32) {
	v = round6(v)
	if v == s.material.RotationSpeed {
		return
	}
	s.material.RotationSpeed = v
	s.notify(SpeedChanged)
}

func (s *Store) setMaterial(edit func(*Material)) {
	next := s.material
	edit(&next)
	next = clampMaterial(next)
	if next == s.material {
		return
	}
	s.material = next
	s.notify(MaterialChanged)
}

// SetPosition sets one axis (0..2) of the model position offset, clamped to [MinOffset, MaxOffset].
func (s *Store) SetPosition(axis int, v float32) {
	s.setTransform(func(t *Transform) { t.Position[axis] = clamp(round6(v), MinOffset, MaxOffset) })
}

// SetRotation sets one axis (0..2) of the model rotation offset, wrapped into [0, 2π].
func (s *Store) SetRotation(axis int, v float32) {
	s.setTransform(func(t *Transform) { t.Rotation[axis] = wrapAngle(v) })
}

// SetScale clamps the model scale factor to [MinScale, MaxScale].
func (s *Store) SetScale(v float32) {
	s.setTransform(func(t *Transform) { t.Scale = clamp(round6(v), MinScale, MaxScale) })
}

// ResetTransform returns the model offsets to the baseline.
func (s *Store) ResetTransform() {
	s.setTransform(func(t *Transform) { *t = DefaultTransform() })
}

func (s *Store) setTransform(edit func(*Transform)) {
	next := s.transform
	edit(&next)
	if next == s.transform {
		return
	}
	s.transform = next
	s.notify(TransformChanged)
}

// Value reads a field by name.
func (s *Store) Value(f Field) (float32, error) {
	switch f {
	case Radius:
		return s.shape.Radius, nil
	case Subdivision:
		return float32(s.shape.Subdivision), nil
	case ClipHeight:
		return s.shape.ClipHeight, nil
	case Roughness:
		return s.material.Roughness, nil
	case Metalness:
		return s.material.Metalness, nil
	case Opacity:
		return s.material.Opacity, nil
	case RotationSpeed:
		return s.material.RotationSpeed, nil
	case PositionX, PositionY, PositionZ:
		return s.transform.Position[axisOf(f)], nil
	case RotationX, RotationY, RotationZ:
		return s.transform.Rotation[axisOf(f)], nil
	case ScaleFactor:
		return s.transform.Scale, nil
	}
	return 0, fmt.Errorf("params: unknown field %q", f)
}

// Adjust adds step to a field and clamps the result. Subdivision steps are rounded to whole levels.
func (s *Store) Adjust(f Field, step float32) error {
	cur, err := s.Value(f)
	if err != nil {
		return err
	}
	v := cur + step
	switch f {
	case Radius:
		s.SetRadius(v)
	case Subdivision:
		s.SetSubdivision(s.shape.Subdivision + int(roundHalfAway(step)))
	case ClipHeight:
		s.SetClipHeight(v)
	case Roughness:
		s.SetRoughness(v)
	case Metalness:
		s.SetMetalness(v)
	case Opacity:
		s.SetOpacity(v)
	case RotationSpeed:
		s.SetRotationSpeed(v)
	case PositionX, PositionY, PositionZ:
		s.SetPosition(axisOf(f), v)
	case RotationX, RotationY, RotationZ:
		s.SetRotation(axisOf(f), v)
	case ScaleFactor:
		s.SetScale(v)
	}
	return nil
}

// KnownField reports whether f names an adjustable value.
func KnownField(f Field) bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

func axisOf(f Field) int {
	switch f {
	case PositionY, RotationY:
		return 1
	case PositionZ, RotationZ:
		return 2
	}
	return 0
}

func roundHalfAway(v float32) float32 {
	if v < 0 {
		return -roundHalfAway(-v)
	}
	return float32(int(v + 0.5))
}
