package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/logger"
	"dome-viewer/internal/params"
	"dome-viewer/internal/primitives"
)

// DefaultTargetSize is the largest extent a loaded model is scaled to at load time.
const DefaultTargetSize = 2.0

// Options configures a Manager.
type Options struct {
	// DomeAnchor is where the dome sits and where loaded models are placed.
	DomeAnchor mgl32.Vec3
	TargetSize float32
}

// Manager owns the single active object. It builds the replacement first, disposes everything the
// old object owned, and only then attaches the new one, so Drawables never mixes two objects.
// Not safe for concurrent use; call it from the frame-loop goroutine.
type Manager struct {
	store  *params.Store
	solids *primitives.Registry
	r      Renderer
	log    *logger.Logger
	opts   Options
	clip   *ClippingPlane
	active Object
}

// New returns a manager with no active object. It subscribes to store changes.
func New(store *params.Store, solids *primitives.Registry, r Renderer, log *logger.Logger, opts Options) *Manager {
	if opts.TargetSize <= 0 {
		opts.TargetSize = DefaultTargetSize
	}
	if log == nil {
		log = logger.Discard()
	}
	m := &Manager{
		store:  store,
		solids: solids,
		r:      r,
		log:    log,
		opts:   opts,
		clip:   &ClippingPlane{Normal: mgl32.Vec3{0, 1, 0}, Constant: store.Shape().ClipHeight},
	}
	store.OnChange(m.HandleChange)
	return m
}

// Active returns the current object, or nil.
func (m *Manager) Active() Object { return m.active }

// Kind returns the variant of the current object.
func (m *Manager) Kind() Variant {
	if m.active == nil {
		return VariantNone
	}
	return m.active.Variant()
}

// ClippingPlane returns the plane shared by every material.
func (m *Manager) ClippingPlane() *ClippingPlane { return m.clip }

// SetActiveVariant switches to kind. A model needs mesh; a dome ignores it.
func (m *Manager) SetActiveVariant(kind Variant, mesh *DecodedMesh) error {
	switch kind {
	case VariantDome:
		return m.ShowDome()
	case VariantModel:
		if mesh == nil {
			return ErrNoMesh
		}
		return m.ShowModel(mesh)
	}
	return fmt.Errorf("scene: cannot activate %v", kind)
}

// ShowDome builds a dome from the current parameters and makes it active. When the shape kind
// is unsupported the error is logged and the previous object is left in place.
func (m *Manager) ShowDome() error {
	d, err := m.buildDome()
	if err != nil {
		m.log.Errorf("%v", err)
		return err
	}
	m.attach(d)
	m.log.Infof("dome active: %v r=%.2f detail=%d (%d vertices)", d.Kind, d.Radius, d.Subdivision, d.Vertices)
	return nil
}

// ShowModel takes ownership of mesh and makes it active, deriving the load-time baseline from its
// bounds and resetting the transform offsets. On failure the mesh's geometry is released.
func (m *Manager) ShowModel(mesh *DecodedMesh) error {
	if len(mesh.Submeshes) == 0 {
		m.Discard(mesh)
		return fmt.Errorf("scene: mesh %q has no submeshes", mesh.Name)
	}
	lo, hi := mesh.Bounds()
	size := hi.Sub(lo)
	extent := max(size[0], size[1], size[2])
	scale := float32(1)
	if extent > 0 {
		scale = m.opts.TargetSize / extent
	}
	model := &Model{
		Name:           mesh.Name,
		OriginalCenter: lo.Add(hi).Mul(0.5),
		InitialScale:   scale,
		BasePosition:   m.opts.DomeAnchor,
		Parts:          make([]Part, 0, len(mesh.Submeshes)),
	}
	for _, s := range mesh.Submeshes {
		model.Parts = append(model.Parts, Part{Geometry: s.Geometry, Tint: s.BaseColor})
	}
	if err := m.buildModelMaterials(model); err != nil {
		m.dispose(model)
		return err
	}
	m.attach(model)
	m.store.ResetTransform()
	m.log.Infof("model active: %s (%d parts, scale %.3f)", model.Name, len(model.Parts), scale)
	return nil
}

// Discard releases the geometry of a decoded mesh that will never be shown.
func (m *Manager) Discard(mesh *DecodedMesh) {
	if mesh == nil {
		return
	}
	for _, s := range mesh.Submeshes {
		m.r.Dispose(s.Geometry)
	}
}

// RegenerateCurrent rebuilds the active object from the latest parameters without changing
// its variant. A dome gets new geometry and material and keeps its spin. A model only gets new
// materials; its geometry and baseline are kept so user offsets survive.
func (m *Manager) RegenerateCurrent() error {
	switch obj := m.active.(type) {
	case *Dome:
		d, err := m.buildDome()
		if err != nil {
			return err
		}
		d.Spin = obj.Spin
		m.attach(d)
		return nil
	case *Model:
		next := *obj
		next.Parts = make([]Part, len(obj.Parts))
		for i, p := range obj.Parts {
			next.Parts[i] = Part{Geometry: p.Geometry, Tint: p.Tint}
		}
		if err := m.buildModelMaterials(&next); err != nil {
			return err
		}
		for _, p := range obj.Parts {
			m.r.Dispose(p.Material)
		}
		m.active = &next
		return nil
	}
	return nil
}

// ApplyClippingHeight moves the shared plane in place.
func (m *Manager) ApplyClippingHeight(h float32) {
	m.clip.Constant = h
}

// HandleChange reacts to a store notification with the cheapest sufficient update.
func (m *Manager) HandleChange(c params.Change) {
	switch c {
	case params.ShapeChanged:
		m.ApplyClippingHeight(m.store.Shape().ClipHeight)
		m.regenerate()
	case params.MaterialChanged:
		m.regenerate()
	case params.ClippingChanged:
		m.ApplyClippingHeight(m.store.Shape().ClipHeight)
	}
}

func (m *Manager) regenerate() {
	if err := m.RegenerateCurrent(); err != nil {
		m.log.Errorf("%v", err)
	}
}

// Rotate advances the spin of the active object.
func (m *Manager) Rotate(delta float32) {
	if m.active != nil {
		m.active.spinBy(delta)
	}
}

// Drawables lists what the renderer should draw this frame.
func (m *Manager) Drawables() []Drawable {
	switch obj := m.active.(type) {
	case *Dome:
		return []Drawable{{Geometry: obj.Geometry, Material: obj.Material, Matrix: obj.Matrix()}}
	case *Model:
		mat := obj.Matrix(m.store.Transform())
		out := make([]Drawable, len(obj.Parts))
		for i, p := range obj.Parts {
			out[i] = Drawable{Geometry: p.Geometry, Material: p.Material, Matrix: mat}
		}
		return out
	}
	return nil
}

// Close disposes the active object. Calling it again is a no-op.
func (m *Manager) Close() {
	m.dispose(m.active)
	m.active = nil
}

func (m *Manager) buildDome() (*Dome, error) {
	shape := m.store.Shape()
	if !m.solids.Supported(shape.Kind) {
		return nil, &ConfigurationError{Kind: shape.Kind, Err: ErrUnsupportedShape}
	}
	geo, err := m.solids.Generate(shape.Kind, shape.Radius, shape.Subdivision)
	if err != nil {
		return nil, &ConfigurationError{Kind: shape.Kind, Err: err}
	}
	gh, err := m.r.CreateGeometry(geo)
	if err != nil {
		return nil, fmt.Errorf("scene: upload dome geometry: %w", err)
	}
	mh, err := m.r.CreateMaterial(m.materialSpec(m.store.Material().BaseColor))
	if err != nil {
		m.r.Dispose(gh)
		return nil, fmt.Errorf("scene: create dome material: %w", err)
	}
	return &Dome{
		Geometry:    gh,
		Material:    mh,
		Kind:        shape.Kind,
		Radius:      shape.Radius,
		Subdivision: shape.Subdivision,
		Vertices:    geo.VertexCount(),
		Position:    m.opts.DomeAnchor,
	}, nil
}

// buildModelMaterials fills in one material per part. On failure the materials created so far are
// disposed and the parts are left without materials.
func (m *Manager) buildModelMaterials(model *Model) error {
	for i := range model.Parts {
		h, err := m.r.CreateMaterial(m.materialSpec(model.Parts[i].Tint))
		if err != nil {
			for j := 0; j < i; j++ {
				m.r.Dispose(model.Parts[j].Material)
				model.Parts[j].Material = 0
			}
			return fmt.Errorf("scene: create material for part %d of %s: %w", i, model.Name, err)
		}
		model.Parts[i].Material = h
	}
	return nil
}

// materialSpec derives a material from the current parameters. Clipping is attached in every mode.
func (m *Manager) materialSpec(tint color.RGBA) MaterialSpec {
	mat := m.store.Material()
	wire := m.store.Shape().WireframeOnly
	return MaterialSpec{
		Color:       tint,
		Roughness:   mat.Roughness,
		Metalness:   mat.Metalness,
		Opacity:     mat.Opacity,
		Transparent: mat.Opacity < 1,
		Wireframe:   wire,
		FlatShading: !wire,
		DoubleSided: true,
		Clip:        m.clip,
		ClipShadows: true,
	}
}

func (m *Manager) attach(next Object) {
	m.dispose(m.active)
	m.active = next
}

func (m *Manager) dispose(obj Object) {
	if obj == nil {
		return
	}
	for _, h := range obj.Handles() {
		if h != 0 {
			m.r.Dispose(h)
		}
	}
}
