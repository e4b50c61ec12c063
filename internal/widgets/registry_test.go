package widgets

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dome-viewer/internal/params"
	"dome-viewer/internal/scene"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

var viewer = NewPose(mgl32.Vec3{0, 1.7, 2}, 0, 0)

// rayAt aims a ray from the viewer at the widget's center.
func rayAt(w *Widget) Ray {
	return Ray{Origin: viewer.Position, Direction: w.Position.Sub(viewer.Position).Normalize()}
}

func TestInitialVisibility(t *testing.T) {
	r := newRegistry(t)
	for _, w := range r.Widgets() {
		switch {
		case w.Kind == Button:
			assert.True(t, w.Visible, w.ID)
			assert.Empty(t, w.Group, w.ID)
		case w.Group == "shape":
			assert.True(t, w.Visible, w.ID)
		default:
			assert.False(t, w.Visible, w.ID)
		}
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	r := newRegistry(t)
	before := map[string]bool{}
	for _, w := range r.Widgets() {
		before[w.ID] = w.Visible
	}
	for _, g := range r.Groups() {
		require.NoError(t, r.ToggleGroupVisibility(g))
		require.NoError(t, r.ToggleGroupVisibility(g))
	}
	for _, w := range r.Widgets() {
		assert.Equal(t, before[w.ID], w.Visible, w.ID)
	}
}

func TestToggleIsGroupWide(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, r.ToggleGroupVisibility("material"))
	for _, w := range r.Widgets() {
		if w.Group == "material" {
			assert.True(t, w.Visible, w.ID)
		}
		if w.Kind == Button {
			assert.True(t, w.Visible, w.ID)
		}
	}
	assert.True(t, r.GroupVisible("material"))
	btn, ok := r.Get("toggle_material")
	require.True(t, ok)
	assert.True(t, btn.Dirty, "the toggling button repaints")
	assert.Error(t, r.ToggleGroupVisibility("toolbar"))
}

func TestRepositionIdempotent(t *testing.T) {
	r := newRegistry(t)
	pose := NewPose(mgl32.Vec3{0.3, 1.6, 1.2}, 0.4, -0.2)
	for _, mode := range []Mode{Flat, Immersive} {
		for _, v := range []scene.Variant{scene.VariantDome, scene.VariantModel} {
			r.Reposition(pose, mode, v)
			first := map[string]mgl32.Vec3{}
			for _, w := range r.Widgets() {
				first[w.ID] = w.Position
			}
			r.Reposition(pose, mode, v)
			for _, w := range r.Widgets() {
				assert.Equal(t, first[w.ID], w.Position, w.ID)
				assert.Equal(t, pose.Orientation, w.Orientation, w.ID)
			}
		}
	}
}

func TestRepositionMarksPanelsDirty(t *testing.T) {
	r := newRegistry(t)
	for _, w := range r.Widgets() {
		w.Dirty = false
	}
	r.Reposition(viewer, Flat, scene.VariantDome)
	for _, w := range r.Widgets() {
		assert.Equal(t, w.Kind == Panel, w.Dirty, w.ID)
	}
}

func TestModelSwapsMaterialAndTransformSlots(t *testing.T) {
	r := newRegistry(t)
	mat, _ := r.Get("material_info")
	tr, _ := r.Get("transform_info")

	r.Reposition(viewer, Flat, scene.VariantDome)
	matDome, trDome := mat.Position, tr.Position
	assert.Greater(t, matDome.Y(), trDome.Y())

	r.Reposition(viewer, Flat, scene.VariantModel)
	assert.InDelta(t, matDome.Y(), tr.Position.Y(), 1e-5)
	assert.InDelta(t, trDome.Y(), mat.Position.Y(), 1e-5)
}

func TestPlacementFollowsViewer(t *testing.T) {
	r := newRegistry(t)
	w, _ := r.Get("shape_info")
	r.Reposition(viewer, Flat, scene.VariantDome)
	straight := w.Position.Sub(viewer.Position)

	turned := NewPose(viewer.Position, params.TwoPi/4, 0)
	r.Reposition(turned, Flat, scene.VariantDome)
	rotated := w.Position.Sub(turned.Position)
	assert.InDelta(t, straight.Len(), rotated.Len(), 1e-5)
	assert.InDelta(t, straight.Y(), rotated.Y(), 1e-5)
	// a quarter turn left maps the viewer's -Z onto world -X
	assert.InDelta(t, straight.Z(), rotated.X(), 1e-5)
}

func TestIntersectHitsVisibleWidget(t *testing.T) {
	r := newRegistry(t)
	r.Reposition(viewer, Flat, scene.VariantDome)
	target, _ := r.Get("radius_up")
	hit, ok := r.Intersect(rayAt(target))
	require.True(t, ok)
	assert.Equal(t, "radius_up", hit.ID)
}

func TestHiddenWidgetsAreNotHit(t *testing.T) {
	r := newRegistry(t)
	r.Reposition(viewer, Flat, scene.VariantDome)
	target, _ := r.Get("roughness_up")
	require.False(t, target.Visible)
	_, ok := r.Intersect(rayAt(target))
	assert.False(t, ok)

	require.NoError(t, r.ToggleGroupVisibility("material"))
	hit, ok := r.Intersect(rayAt(target))
	require.True(t, ok)
	assert.Equal(t, "roughness_up", hit.ID)
}

func TestRayAwayMisses(t *testing.T) {
	r := newRegistry(t)
	r.Reposition(viewer, Flat, scene.VariantDome)
	_, ok := r.Intersect(Ray{Origin: viewer.Position, Direction: mgl32.Vec3{0, 0, 1}})
	assert.False(t, ok)
}

func TestPointerRayCenterIsForward(t *testing.T) {
	pose := NewPose(mgl32.Vec3{1, 2, 3}, 0.7, 0.1)
	ray := PointerRay(pose, 0, 0, params.TwoPi/6, 16.0/9.0)
	fwd := pose.Forward()
	assert.InDeltaSlice(t, fwd[:], ray.Direction[:], 1e-5)
	assert.Equal(t, pose.Position, ray.Origin)
	gaze := GazeRay(pose)
	assert.InDeltaSlice(t, gaze.Direction[:], ray.Direction[:], 1e-6)
}

func TestLayoutValidation(t *testing.T) {
	cases := map[string]string{
		"button in group": `
anchors: {bar: {flat: {dome: [0,0,0], model: [0,0,0]}, immersive: {dome: [0,0,0], model: [0,0,0]}}}
groups: [{name: g}]
widgets: [{id: b, kind: button, anchor: bar, group: g, size: [1,1]}]`,
		"missing placement": `
anchors: {bar: {flat: {dome: [0,0,0]}}}
widgets: []`,
		"unknown field": `
anchors: {g: {flat: {dome: [0,0,0], model: [0,0,0]}, immersive: {dome: [0,0,0], model: [0,0,0]}}}
groups: [{name: g}]
widgets: [{id: p, kind: panel, group: g, size: [1,1], action: {kind: adjust_shape, field: hue, step: 1}}]`,
		"unknown action": `
anchors: {}
widgets: [{id: p, kind: panel, action: {kind: explode}}]`,
		"duplicate id": `
anchors: {g: {flat: {dome: [0,0,0], model: [0,0,0]}, immersive: {dome: [0,0,0], model: [0,0,0]}}}
groups: [{name: g}]
widgets: [{id: p, kind: panel, group: g, size: [1,1]}, {id: p, kind: panel, group: g, size: [1,1]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("immersive")
	require.NoError(t, err)
	assert.Equal(t, Immersive, m)
	_, err = ParseMode("vr")
	assert.Error(t, err)
}
