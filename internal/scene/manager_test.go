package scene

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dome-viewer/internal/params"
	"dome-viewer/internal/primitives"
)

// fakeRenderer hands out sequential handles and tracks which are still live.
type fakeRenderer struct {
	next      Handle
	live      map[Handle]string
	materials map[Handle]MaterialSpec
	geometry  map[Handle]*primitives.Geometry
	failMat   bool
	disposed  int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		live:      map[Handle]string{},
		materials: map[Handle]MaterialSpec{},
		geometry:  map[Handle]*primitives.Geometry{},
	}
}

func (f *fakeRenderer) CreateGeometry(g *primitives.Geometry) (Handle, error) {
	f.next++
	f.live[f.next] = "geometry"
	f.geometry[f.next] = g
	return f.next, nil
}

func (f *fakeRenderer) CreateMaterial(spec MaterialSpec) (Handle, error) {
	if f.failMat {
		return 0, errors.New("out of material slots")
	}
	f.next++
	f.live[f.next] = "material"
	f.materials[f.next] = spec
	return f.next, nil
}

func (f *fakeRenderer) Dispose(h Handle) {
	if _, ok := f.live[h]; ok {
		f.disposed++
	}
	delete(f.live, h)
}

// decodedMesh simulates the asset side uploading n submeshes.
func (f *fakeRenderer) decodedMesh(n int) *DecodedMesh {
	mesh := &DecodedMesh{Name: "teapot.glb"}
	for i := 0; i < n; i++ {
		h, _ := f.CreateGeometry(&primitives.Geometry{})
		mesh.Submeshes = append(mesh.Submeshes, Submesh{
			Geometry:  h,
			BaseColor: color.RGBA{R: uint8(40 * i), A: 255},
			Min:       mgl32.Vec3{-1, 0, -1},
			Max:       mgl32.Vec3{1, float32(4 + i), 1},
		})
	}
	return mesh
}

func setup(t *testing.T) (*Manager, *params.Store, *fakeRenderer) {
	t.Helper()
	solids, err := primitives.NewRegistry()
	require.NoError(t, err)
	store := params.NewStore(params.DefaultShape(), params.DefaultMaterial())
	r := newFakeRenderer()
	m := New(store, solids, r, nil, Options{DomeAnchor: mgl32.Vec3{0, 0, -5}})
	return m, store, r
}

func TestSwitchReleasesPreviousVariant(t *testing.T) {
	for _, kind := range []params.ShapeKind{params.Icosahedral, params.Octahedral} {
		for _, level := range []int{0, 1, 2, 5} {
			m, store, r := setup(t)
			store.SetKind(kind)
			store.SetSubdivision(level)
			require.NoError(t, m.SetActiveVariant(VariantDome, nil))
			domeHandles := m.Active().Handles()

			require.NoError(t, m.SetActiveVariant(VariantModel, r.decodedMesh(3)))
			for _, h := range domeHandles {
				assert.NotContains(t, r.live, h)
			}
			assert.Len(t, r.live, 6)

			modelHandles := m.Active().Handles()
			require.NoError(t, m.SetActiveVariant(VariantDome, nil))
			for _, h := range modelHandles {
				assert.NotContains(t, r.live, h)
			}
			assert.Len(t, r.live, 2)
		}
	}
}

func TestDomeFromCurrentParametersAfterModel(t *testing.T) {
	m, store, r := setup(t)
	require.NoError(t, m.ShowDome())
	require.NoError(t, m.ShowModel(r.decodedMesh(1)))

	store.SetRadius(2.5)
	store.SetSubdivision(2)
	require.NoError(t, m.ShowDome())

	d, ok := m.Active().(*Dome)
	require.True(t, ok)
	assert.Equal(t, float32(2.5), d.Radius)
	assert.Equal(t, 540, d.Vertices)
	assert.Equal(t, float32(2.5), r.geometry[d.Geometry].Radius)
}

func TestUnsupportedKindKeepsPreviousObject(t *testing.T) {
	m, store, r := setup(t)
	require.NoError(t, m.ShowDome())
	before := m.Active()

	bad, _ := params.ParseShapeKind("cube")
	store.SetKind(bad)
	assert.Same(t, before, m.Active())

	err := m.ShowDome()
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, bad, cerr.Kind)
	assert.Equal(t, ErrUnsupportedShape, cerr.Err, "rejected before generating")
	assert.True(t, errors.Is(err, ErrUnsupportedShape))
	assert.Same(t, before, m.Active())
	assert.Len(t, r.live, 2)
}

func TestRegenerateDomeOnShapeChange(t *testing.T) {
	m, store, r := setup(t)
	require.NoError(t, m.ShowDome())
	m.Rotate(0.5)
	old := m.Active().Handles()

	store.SetRadius(3)
	d := m.Active().(*Dome)
	assert.Equal(t, float32(3), d.Radius)
	assert.InDelta(t, 0.5, d.Spin, 1e-6)
	for _, h := range old {
		assert.NotContains(t, r.live, h)
	}
	assert.Len(t, r.live, 2)
}

func TestModelRegenerationRebuildsMaterialsOnly(t *testing.T) {
	m, store, r := setup(t)
	mesh := r.decodedMesh(2)
	require.NoError(t, m.ShowModel(mesh))
	store.SetPosition(0, 1.5)
	first := m.Active().(*Model)

	store.SetRoughness(0.8)
	second := m.Active().(*Model)
	require.Len(t, second.Parts, 2)
	for i := range second.Parts {
		assert.Equal(t, first.Parts[i].Geometry, second.Parts[i].Geometry)
		assert.NotEqual(t, first.Parts[i].Material, second.Parts[i].Material)
		assert.NotContains(t, r.live, first.Parts[i].Material)
		assert.Equal(t, float32(0.8), r.materials[second.Parts[i].Material].Roughness)
	}
	assert.Equal(t, float32(1.5), store.Transform().Position[0])
	assert.Equal(t, first.OriginalCenter, second.OriginalCenter)
}

func TestModelBaseline(t *testing.T) {
	m, _, r := setup(t)
	require.NoError(t, m.ShowModel(r.decodedMesh(2)))
	model := m.Active().(*Model)
	// union bounds: x,z in [-1,1], y in [0,5]
	assert.Equal(t, mgl32.Vec3{0, 2.5, 0}, model.OriginalCenter)
	assert.InDelta(t, 2.0/5.0, model.InitialScale, 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, -5}, model.BasePosition)

	center := model.Matrix(params.DefaultTransform()).Mul4x1(model.OriginalCenter.Vec4(1))
	assert.InDelta(t, 0, center[0], 1e-5)
	assert.InDelta(t, 0, center[1], 1e-5)
	assert.InDelta(t, -5, center[2], 1e-5)
}

func TestMaterialPolicy(t *testing.T) {
	m, store, r := setup(t)
	require.NoError(t, m.ShowDome())
	spec := r.materials[m.Active().(*Dome).Material]
	assert.True(t, spec.FlatShading)
	assert.False(t, spec.Wireframe)
	assert.Same(t, m.ClippingPlane(), spec.Clip)
	assert.True(t, spec.ClipShadows)

	store.ToggleWireframe()
	spec = r.materials[m.Active().(*Dome).Material]
	assert.False(t, spec.FlatShading)
	assert.True(t, spec.Wireframe)
	assert.Same(t, m.ClippingPlane(), spec.Clip)
	assert.True(t, spec.ClipShadows)
}

func TestClippingPlaneUpdatedInPlace(t *testing.T) {
	m, store, r := setup(t)
	require.NoError(t, m.ShowDome())
	plane := m.ClippingPlane()
	handles := m.Active().Handles()

	store.SetClipHeight(0.7)
	assert.Same(t, plane, m.ClippingPlane())
	assert.Equal(t, float32(0.7), plane.Constant)
	assert.Equal(t, handles, m.Active().Handles())
	assert.True(t, plane.Clipped(mgl32.Vec3{0, -1, 0}))
	assert.False(t, plane.Clipped(mgl32.Vec3{0, 1, 0}))
	assert.Len(t, r.live, 2)
}

func TestMaterialFailureLeavesNothingBehind(t *testing.T) {
	m, _, r := setup(t)
	require.NoError(t, m.ShowDome())
	r.failMat = true
	err := m.ShowModel(r.decodedMesh(2))
	assert.Error(t, err)
	assert.Equal(t, VariantDome, m.Kind())
	assert.Len(t, r.live, 2)
}

func TestCloseIsIdempotent(t *testing.T) {
	m, _, r := setup(t)
	m.Close()
	require.NoError(t, m.ShowDome())
	m.Close()
	m.Close()
	assert.Empty(t, r.live)
	assert.Equal(t, VariantNone, m.Kind())
	assert.Nil(t, m.Drawables())
}

func TestModelNeedsMesh(t *testing.T) {
	m, _, _ := setup(t)
	assert.ErrorIs(t, m.SetActiveVariant(VariantModel, nil), ErrNoMesh)
}

func TestRotateWraps(t *testing.T) {
	m, _, _ := setup(t)
	require.NoError(t, m.ShowDome())
	for i := 0; i < 100; i++ {
		m.Rotate(0.5)
	}
	spin := m.Active().(*Dome).Spin
	assert.GreaterOrEqual(t, spin, float32(0))
	assert.Less(t, spin, float32(params.TwoPi))
}
