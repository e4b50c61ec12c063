// Package picker opens the native file dialog used by the "load" widget.
package picker

import (
	"errors"
	"strings"

	"github.com/sqweek/dialog"

	"dome-viewer/internal/assets"
)

// Dialog is an assets.Picker backed by the platform file chooser.
type Dialog struct {
	StartDir string
	// Extensions are shown without the leading dot, e.g. "glb".
	Extensions []string
}

// New returns a picker filtered to the given extensions (".glb" or "glb").
func New(startDir string, exts []string) *Dialog {
	d := &Dialog{StartDir: startDir}
	for _, e := range exts {
		d.Extensions = append(d.Extensions, strings.TrimPrefix(e, "."))
	}
	return d
}

// PickMesh blocks until the user picks a file or closes the dialog.
func (d *Dialog) PickMesh() (string, error) {
	b := dialog.File().Title("Load Model")
	if d.StartDir != "" {
		b = b.SetStartDir(d.StartDir)
	}
	if len(d.Extensions) > 0 {
		b = b.Filter("3D Models", d.Extensions...)
	}
	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) || (err == nil && path == "") {
		return "", assets.ErrCancelled
	}
	return path, err
}
