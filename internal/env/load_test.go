package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "# comment\n" +
		"\n" +
		"DOMEVIEW_LOG_LEVEL=debug\n" +
		"export DOMEVIEW_WINDOW_TITLE=\"Dome test\"\n" +
		"DOMEVIEW_ASSETS_FONT='Inter'\n" +
		"DOMEVIEW_STARTUP_MODE=immersive\n" +
		"OTHER_KEY=ignored\n" +
		"=novalue\n" +
		"garbage\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("DOMEVIEW_LOG_LEVEL", "")
	t.Setenv("DOMEVIEW_WINDOW_TITLE", "")
	t.Setenv("DOMEVIEW_ASSETS_FONT", "")
	t.Setenv("OTHER_KEY", "")
	// Present in the environment; the file must not override it.
	t.Setenv("DOMEVIEW_STARTUP_MODE", "flat")
	for _, k := range []string{"DOMEVIEW_LOG_LEVEL", "DOMEVIEW_WINDOW_TITLE", "DOMEVIEW_ASSETS_FONT", "OTHER_KEY"} {
		require.NoError(t, os.Unsetenv(k))
	}

	n, err := Load(path, "DOMEVIEW_")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "debug", os.Getenv("DOMEVIEW_LOG_LEVEL"))
	assert.Equal(t, "Dome test", os.Getenv("DOMEVIEW_WINDOW_TITLE"))
	assert.Equal(t, "Inter", os.Getenv("DOMEVIEW_ASSETS_FONT"))
	assert.Equal(t, "flat", os.Getenv("DOMEVIEW_STARTUP_MODE"))
	_, set := os.LookupEnv("OTHER_KEY")
	assert.False(t, set)
}

func TestLoadMissingFile(t *testing.T) {
	n, err := Load(filepath.Join(t.TempDir(), "absent.env"), "DOMEVIEW_")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
