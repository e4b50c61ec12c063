package params

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(s *Store) *[]Change {
	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })
	return &got
}

func TestNewStoreClamps(t *testing.T) {
	s := NewStore(Shape{Radius: 9, Subdivision: -4, ClipHeight: 20}, Material{Roughness: 2, Opacity: -1})
	assert.Equal(t, float32(MaxRadius), s.Shape().Radius)
	assert.Equal(t, MinSubdivision, s.Shape().Subdivision)
	assert.Equal(t, float32(MaxRadius), s.Shape().ClipHeight)
	assert.Equal(t, float32(1), s.Material().Roughness)
	assert.Equal(t, float32(0), s.Material().Opacity)
}

func TestRadiusClampsAtUpperBound(t *testing.T) {
	s := NewStore(Shape{Radius: 0.1}, DefaultMaterial())
	for i := 0; i < 60; i++ {
		require.NoError(t, s.Adjust(Radius, 0.1))
		assert.LessOrEqual(t, s.Shape().Radius, float32(MaxRadius))
	}
	assert.Equal(t, float32(5.0), s.Shape().Radius)
}

func TestRadiusClampsAtLowerBound(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	for i := 0; i < 40; i++ {
		require.NoError(t, s.Adjust(Radius, -0.1))
	}
	assert.Equal(t, float32(MinRadius), s.Shape().Radius)
}

func TestSubdivisionBounds(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Adjust(Subdivision, 1))
	}
	assert.Equal(t, MaxSubdivision, s.Shape().Subdivision)
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Adjust(Subdivision, -1))
	}
	assert.Equal(t, MinSubdivision, s.Shape().Subdivision)
}

func TestClipHeightStaysWithinRadius(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	rng := rand.New(rand.NewSource(7))
	fields := []Field{ClipHeight, ClipHeight, Radius}
	for i := 0; i < 2000; i++ {
		f := fields[rng.Intn(len(fields))]
		step := float32(0.1)
		if rng.Intn(2) == 0 {
			step = -step
		}
		require.NoError(t, s.Adjust(f, step))
		sh := s.Shape()
		require.GreaterOrEqual(t, sh.ClipHeight, -sh.Radius)
		require.LessOrEqual(t, sh.ClipHeight, sh.Radius)
	}
}

func TestChangeNotifications(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	got := recorder(s)

	require.NoError(t, s.Adjust(ClipHeight, 0.1))
	require.NoError(t, s.Adjust(Radius, 0.1))
	s.ToggleWireframe()
	require.NoError(t, s.Adjust(Roughness, 0.05))
	require.NoError(t, s.Adjust(RotationSpeed, 0.005))
	require.NoError(t, s.Adjust(PositionX, 0.1))

	assert.Equal(t, []Change{ClippingChanged, ShapeChanged, ShapeChanged, MaterialChanged, SpeedChanged, TransformChanged}, *got)
}

func TestNoNotificationWhenClamped(t *testing.T) {
	s := NewStore(Shape{Radius: MaxRadius}, DefaultMaterial())
	got := recorder(s)
	s.SetRadius(MaxRadius + 1)
	assert.Empty(t, *got)
}

func TestMaterialSettersClamp(t *testing.T) {
	s := NewStore(Shape{Radius: 1}, DefaultMaterial())
	s.SetRoughness(1.5)
	s.SetMetalness(-0.2)
	s.SetOpacity(0.25)
	assert.Equal(t, float32(1), s.Material().Roughness)
	assert.Equal(t, float32(0), s.Material().Metalness)
	assert.Equal(t, float32(0.25), s.Material().Opacity)
}

func TestShrinkingRadiusPullsClipHeight(t *testing.T) {
	s := NewStore(Shape{Radius: 2, ClipHeight: 2}, DefaultMaterial())
	got := recorder(s)
	s.SetRadius(1)
	assert.Equal(t, float32(1), s.Shape().ClipHeight)
	assert.Equal(t, []Change{ShapeChanged}, *got)
}

func TestToggleKind(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	s.ToggleKind()
	assert.Equal(t, Octahedral, s.Shape().Kind)
	s.ToggleKind()
	assert.Equal(t, Icosahedral, s.Shape().Kind)

	bad, ok := ParseShapeKind("dodecahedron")
	assert.False(t, ok)
	s.SetKind(bad)
	s.ToggleKind()
	assert.Equal(t, Icosahedral, s.Shape().Kind)
}

func TestRotationWraps(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	s.SetRotation(1, -0.5)
	r := s.Transform().Rotation[1]
	assert.InDelta(t, TwoPi-0.5, r, 1e-5)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Adjust(RotationY, 0.3))
		r := s.Transform().Rotation[1]
		require.GreaterOrEqual(t, r, float32(0))
		require.LessOrEqual(t, r, float32(TwoPi))
	}
}

func TestTransformClamp(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	s.SetPosition(2, -12)
	s.SetScale(0)
	assert.Equal(t, float32(MinOffset), s.Transform().Position[2])
	assert.Equal(t, float32(MinScale), s.Transform().Scale)
	s.ResetTransform()
	assert.Equal(t, DefaultTransform(), s.Transform())
}

func TestCycleColorWalksPalette(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	for i := 1; i <= len(Palette); i++ {
		s.CycleColor()
		assert.Equal(t, Palette[i%len(Palette)], s.Material().BaseColor)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	snap := s.Snapshot()
	s.SetRadius(3)
	s.SetPosition(0, 1)
	assert.Equal(t, float32(1.5), snap.Shape.Radius)
	assert.Equal(t, float32(0), snap.Transform.Position[0])
}

func TestUnknownField(t *testing.T) {
	s := NewStore(DefaultShape(), DefaultMaterial())
	assert.Error(t, s.Adjust(Field("hue"), 1))
	assert.False(t, KnownField("hue"))
	assert.True(t, KnownField(ScaleFactor))
}
