package input

import (
	"fmt"

	"dome-viewer/internal/logger"
	"dome-viewer/internal/params"
	"dome-viewer/internal/scene"
	"dome-viewer/internal/widgets"
)

// State is the presentation-affecting part of input handling.
type State int

const (
	Idle State = iota
	AwaitingAsset
)

func (s State) String() string {
	if s == AwaitingAsset {
		return "awaiting asset"
	}
	return "idle"
}

// Objects is the part of the scene manager that actions switch between variants with.
type Objects interface {
	ShowDome() error
	ShowModel(mesh *scene.DecodedMesh) error
	Discard(mesh *scene.DecodedMesh)
}

// Loader starts and cancels asynchronous loads.
type Loader interface {
	// RequestMesh loads path, or asks the user for a file when path is empty.
	RequestMesh(path string)
	CancelMesh()
	NextEnvironment()
}

// Camera describes the flat-mode view that pointer coordinates are projected through.
type Camera struct {
	Pose   widgets.Pose
	FovY   float32
	Aspect float32
}

// Dispatcher turns pointer and controller events into widget actions. Actions run synchronously,
// so their effects are visible to the next frame.
type Dispatcher struct {
	store   *params.Store
	objects Objects
	widgets *widgets.Registry
	loader  Loader
	log     *logger.Logger

	camera  Camera
	pointer [2]float32
	ray     widgets.Ray
	state   State
}

// New returns an idle dispatcher.
func New(store *params.Store, objects Objects, reg *widgets.Registry, loader Loader, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}
	return &Dispatcher{store: store, objects: objects, widgets: reg, loader: loader, log: log}
}

// State returns the current state.
func (d *Dispatcher) State() State { return d.state }

// Ray returns the ray the next primary action will test.
func (d *Dispatcher) Ray() widgets.Ray { return d.ray }

// SetCamera updates the projection used by OnPointerMove and re-casts the last pointer position.
func (d *Dispatcher) SetCamera(c Camera) {
	d.camera = c
	d.OnPointerMove(d.pointer[0], d.pointer[1])
}

// OnPointerMove takes normalized device coordinates (x, y in [-1, 1], +y up).
func (d *Dispatcher) OnPointerMove(x, y float32) {
	d.pointer = [2]float32{x, y}
	d.ray = widgets.PointerRay(d.camera.Pose, x, y, d.camera.FovY, d.camera.Aspect)
}

// OnControllerRay replaces the current ray with a tracked controller ray.
func (d *Dispatcher) OnControllerRay(r widgets.Ray) {
	d.ray = r
}

// OnPrimaryAction hit-tests the current ray and runs the action of the widget it hits.
func (d *Dispatcher) OnPrimaryAction() (string, bool) {
	w, ok := d.widgets.Intersect(d.ray)
	if !ok {
		return "", false
	}
	d.run(w)
	return w.ID, true
}

// Press runs the action bound to id as if its widget had been hit.
func (d *Dispatcher) Press(id string) error {
	w, ok := d.widgets.Get(id)
	if !ok {
		return fmt.Errorf("input: unknown widget %q", id)
	}
	d.run(w)
	return nil
}

// LoadPath starts loading a mesh file without the picker.
func (d *Dispatcher) LoadPath(path string) {
	d.state = AwaitingAsset
	d.loader.RequestMesh(path)
}

func (d *Dispatcher) run(w *widgets.Widget) {
	a := w.Action
	var err error
	switch a.Kind {
	case widgets.None:
		return
	case widgets.AdjustShape, widgets.AdjustMaterial, widgets.AdjustTransform:
		err = d.store.Adjust(a.Field, a.Step)
	case widgets.ToggleShapeKind:
		d.store.ToggleKind()
	case widgets.ToggleWireframe:
		d.store.ToggleWireframe()
	case widgets.CycleColor:
		d.store.CycleColor()
	case widgets.ToggleGroup:
		err = d.widgets.ToggleGroupVisibility(a.Group)
	case widgets.RequestLoad:
		d.LoadPath("")
	case widgets.ResetDome:
		d.Reset()
	case widgets.NextEnvironment:
		d.loader.NextEnvironment()
	}
	if err != nil {
		d.log.Errorf("%s: %v", w.ID, err)
		return
	}
	d.log.Debugf("%s: %v", w.ID, a.Kind)
}

// Reset drops any pending mesh load and returns to the dome.
func (d *Dispatcher) Reset() {
	d.loader.CancelMesh()
	d.state = Idle
	if err := d.objects.ShowDome(); err != nil {
		d.log.Errorf("reset: %v", err)
	}
}

// FinishLoad is the mesh completion callback. A nil mesh with a nil error means the user
// cancelled. Loader errors were already reported; the state returns to Idle either way.
func (d *Dispatcher) FinishLoad(mesh *scene.DecodedMesh, err error) {
	if d.state != AwaitingAsset {
		d.objects.Discard(mesh)
		return
	}
	d.state = Idle
	if err != nil || mesh == nil {
		return
	}
	if err := d.objects.ShowModel(mesh); err != nil {
		d.log.Errorf("show model: %v", err)
	}
}
