package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	l := New(Options{Level: Warn, Stderr: io.Discard})
	l.Infof("dropped %d", 1)
	l.Warnf("kept %d", 2)
	l.Errorf("kept %d", 3)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN kept 2")
	assert.Contains(t, lines[1], "ERROR kept 3")
}

func TestRingIsBounded(t *testing.T) {
	l := New(Options{Capacity: 3, Stderr: io.Discard})
	for i := 0; i < 10; i++ {
		l.Errorf("line %d", i)
	}
	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "line 7"))
	assert.True(t, strings.HasSuffix(lines[2], "line 9"))

	errs := l.Errors(2)
	require.Len(t, errs, 2)
	assert.True(t, strings.HasSuffix(errs[1], "line 9"))
}

func TestErrorsOnlyHoldsErrorLevel(t *testing.T) {
	l := Discard()
	l.Infof("fine")
	l.Errorf("broken texture")
	errs := l.Errors(5)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "broken texture")
}

func TestFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.txt")
	l := New(Options{Path: path, Stderr: io.Discard})
	l.Log("hello")
	l.Warnf("world")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "INFO hello")
	assert.Contains(t, got[1], "WARN world")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel(" error "))
	assert.Equal(t, Info, ParseLevel("chatty"))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))

	path := "decode /home/josé/modèles/éléphant.glb: bad header"
	got := Truncate(path, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.Equal(t, "decode /home/josé...", got)

	assert.Equal(t, "..", Truncate("ééé", 2))
}
