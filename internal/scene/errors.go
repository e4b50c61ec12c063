package scene

import (
	"errors"
	"fmt"

	"dome-viewer/internal/params"
	"dome-viewer/internal/primitives"
)

// ErrUnsupportedShape is matched (errors.Is) by every ConfigurationError caused by an unknown kind.
var ErrUnsupportedShape = primitives.ErrUnsupportedKind

// ErrNoMesh is returned when a model switch is requested without a decoded mesh.
var ErrNoMesh = errors.New("scene: model variant needs a decoded mesh")

// ConfigurationError reports a dome that could not be generated. The previous object stays active.
type ConfigurationError struct {
	Kind params.ShapeKind
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scene: cannot generate %v dome: %v", e.Kind, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
