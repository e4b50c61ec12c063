package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	l := NewLoader(t.TempDir())
	c, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Empty(t, l.File())
}

func TestFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := `
shape:
  kind: octahedron
  radius: 2.5
assets:
  environments: [a.png, b.jpg]
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer.yaml"), []byte(doc), 0o644))
	c, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "octahedron", c.Shape.Kind)
	assert.Equal(t, float32(2.5), c.Shape.Radius)
	assert.Equal(t, 2, c.Shape.Subdivision)
	assert.Equal(t, []string{"a.png", "b.jpg"}, c.Assets.Environments)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, [3]float32{0, 0, -5}, c.Dome.Anchor)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("DOMEVIEW_WINDOW_WIDTH", "1920")
	t.Setenv("DOMEVIEW_SHAPE_KIND", "tetrahedron")
	c, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, 1920, c.Window.Width)
	assert.Equal(t, "tetrahedron", c.Shape.Kind)
}

func TestMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer.yaml"), []byte("shape: [\n"), 0o644))
	c, err := NewLoader(dir).Load()
	assert.Error(t, err)
	assert.Equal(t, Default(), c)
}

func TestWatchWithoutFileIsNoop(t *testing.T) {
	l := NewLoader(t.TempDir())
	_, err := l.Load()
	require.NoError(t, err)
	l.Watch(func(Config, error) { t.Fatal("unexpected reload") })
}

func TestClipRange(t *testing.T) {
	near, far := Camera{Near: 0.05, Far: 200}.ClipRange()
	assert.Equal(t, float32(0.05), near)
	assert.Equal(t, float32(200), far)

	d := Default().Camera
	for _, c := range []Camera{{}, {Near: -1, Far: 10}, {Near: 5, Far: 5}, {Near: 10, Far: 1}} {
		near, far = c.ClipRange()
		assert.Equal(t, d.Near, near)
		assert.Equal(t, d.Far, far)
	}
}
