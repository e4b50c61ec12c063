package viewer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/assets"
	"dome-viewer/internal/commands"
	"dome-viewer/internal/engineconfig"
	"dome-viewer/internal/input"
	"dome-viewer/internal/logger"
	"dome-viewer/internal/params"
	"dome-viewer/internal/primitives"
	"dome-viewer/internal/scene"
	"dome-viewer/internal/ui"
	"dome-viewer/internal/widgets"
)

const (
	mailboxSize = 16
	hudErrors   = 3
)

// App is the context object: it owns every component of the viewer and nothing lives at package
// scope. Every method except Post runs on the frame goroutine.
type App struct {
	cfg     engineconfig.Config
	log     *logger.Logger
	backend Backend
	mail    *Mailbox

	store    *params.Store
	solids   *primitives.Registry
	scene    *scene.Manager
	widgets  *widgets.Registry
	loader   *assets.Loader
	input    *input.Dispatcher
	ui       *ui.Engine
	commands *commands.Registry

	mode   widgets.Mode
	pose   widgets.Pose
	aspect float32
	closed bool
}

// New wires the viewer from cfg. Nothing touches the backend until Start.
func New(cfg engineconfig.Config, backend Backend, picker assets.Picker, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	solids, err := primitives.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	reg, err := widgets.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	mode, err := widgets.ParseMode(cfg.Startup.Mode)
	if err != nil {
		log.Warnf("%v, starting flat", err)
		mode = widgets.Flat
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		mail:     NewMailbox(mailboxSize),
		solids:   solids,
		widgets:  reg,
		ui:       ui.New(),
		commands: commands.NewRegistry(),
		mode:     mode,
		aspect:   aspectOf(cfg.Window),
	}
	a.store = params.NewStore(a.startShape(), a.startMaterial())
	a.scene = scene.New(a.store, solids, backend, log, scene.Options{
		DomeAnchor: mgl32.Vec3(cfg.Dome.Anchor),
		TargetSize: cfg.Dome.TargetSize,
	})
	a.loader = assets.NewLoader(a.mail.Post, picker, backend, backend, log, assets.Options{
		Environments:        cfg.Assets.Environments,
		MaxEnvironmentWidth: cfg.Assets.MaxEnvironmentWidth,
		MeshExtensions:      cfg.Assets.MeshExtensions,
	})
	a.input = input.New(a.store, a.scene, reg, a.loader, log)
	a.loader.OnMesh(a.input.FinishLoad)
	a.pose = a.StartPose()
	a.registerCommands()
	return a, nil
}

func aspectOf(w engineconfig.Window) float32 {
	if w.Width <= 0 || w.Height <= 0 {
		return 16.0 / 9.0
	}
	return float32(w.Width) / float32(w.Height)
}

func (a *App) startShape() params.Shape {
	c := a.cfg.Shape
	kind, ok := params.ParseShapeKind(c.Kind)
	if !ok {
		a.log.Warnf("unknown shape kind %q", c.Kind)
	}
	return params.Shape{
		Radius:        c.Radius,
		Subdivision:   c.Subdivision,
		Kind:          kind,
		ClipHeight:    c.ClipHeight,
		WireframeOnly: c.Wireframe,
	}
}

func (a *App) startMaterial() params.Material {
	c := a.cfg.Material
	m := params.Material{
		Roughness:     c.Roughness,
		Metalness:     c.Metalness,
		Opacity:       c.Opacity,
		RotationSpeed: c.RotationSpeed,
		BaseColor:     params.Palette[0],
	}
	if col, ok := ui.ParseHexColor(c.Color); ok {
		m.BaseColor = col
	} else if c.Color != "" {
		a.log.Warnf("bad color %q, using the first palette entry", c.Color)
	}
	return m
}

// StartPose is the flat-mode viewpoint: eye height above the floor, eye distance back from the origin.
func (a *App) StartPose() widgets.Pose {
	c := a.cfg.Camera
	return widgets.NewPose(mgl32.Vec3{0, c.EyeHeight, c.EyeDistance}, 0, 0)
}

// Start shows the startup dome and begins loading the first environment. An unsupported startup
// shape is reported and the viewer stays up with nothing to show.
func (a *App) Start() {
	if a.mode == widgets.Immersive {
		if err := a.backend.EnterPresentation(); err != nil {
			a.log.Errorf("enter presentation: %v", err)
			a.mode = widgets.Flat
		}
	}
	_ = a.scene.ShowDome()
	if len(a.cfg.Assets.Environments) > 0 {
		a.loader.LoadEnvironment(0)
	}
	a.widgets.Reposition(a.pose, a.mode, a.scene.Kind())
	a.log.Infof("viewer started in %v mode", a.mode)
}

// Post queues fn for the frame goroutine. Safe from any goroutine.
func (a *App) Post(fn func()) { a.mail.Post(fn) }

// Tick runs one frame: completions queued since the last tick, spin, widget placement, draw.
func (a *App) Tick(pose widgets.Pose) {
	a.mail.Drain()
	a.pose = pose
	a.input.SetCamera(input.Camera{Pose: pose, FovY: a.fovY(), Aspect: a.aspect})
	if a.mode == widgets.Immersive {
		a.input.OnControllerRay(widgets.GazeRay(pose))
	}
	a.scene.Rotate(a.store.Material().RotationSpeed * a.cfg.Dome.Damping)
	a.widgets.Reposition(pose, a.mode, a.scene.Kind())
	f := a.Frame()
	a.backend.Draw(&f)
}

func (a *App) fovY() float32 {
	return a.cfg.Camera.FovDeg * math32.Pi / 180
}

// Frame assembles what the backend draws for the current state.
func (a *App) Frame() Frame {
	env, envName := a.loader.Environment()
	status := a.status(envName)
	hovered := ""
	if w, ok := a.widgets.Intersect(a.input.Ray()); ok {
		hovered = w.ID
	}
	f := Frame{
		Mode:        a.mode,
		Pose:        a.pose,
		FovY:        a.fovY(),
		Drawables:   a.scene.Drawables(),
		Clip:        *a.scene.ClippingPlane(),
		Environment: env,
		Ray:         a.input.Ray(),
		HUD: HUD{
			Mode:        a.mode,
			Variant:     a.scene.Kind(),
			Pending:     status.Pending,
			Environment: envName,
			Errors:      a.log.Errors(hudErrors),
		},
	}
	for _, w := range a.widgets.Widgets() {
		if !w.Visible {
			continue
		}
		f.Panels = append(f.Panels, Panel{
			Widget:  w,
			Face:    a.ui.Compose(w, ui.InfoLines(w.ID, status), a.groupShowing(w)),
			Hovered: w.ID == hovered,
		})
	}
	return f
}

// groupShowing reports whether w toggles a group that is currently visible.
func (a *App) groupShowing(w *widgets.Widget) bool {
	return w.Action.Kind == widgets.ToggleGroup && a.widgets.GroupVisible(w.Action.Group)
}

func (a *App) status(envName string) ui.Status {
	st := ui.Status{
		Params:      a.store.Snapshot(),
		Variant:     a.scene.Kind(),
		Pending:     a.input.State() == input.AwaitingAsset,
		Environment: envName,
	}
	if d, ok := a.scene.Active().(*scene.Dome); ok {
		st.Vertices = d.Vertices
	}
	return st
}

// PointerMove forwards normalized pointer coordinates in flat mode.
func (a *App) PointerMove(x, y float32) {
	if a.mode == widgets.Flat {
		a.input.OnPointerMove(x, y)
	}
}

// ControllerRay replaces the pointer ray with a tracked controller.
func (a *App) ControllerRay(r widgets.Ray) { a.input.OnControllerRay(r) }

// PrimaryAction runs the widget under the current ray, if any.
func (a *App) PrimaryAction() (string, bool) { return a.input.OnPrimaryAction() }

// TogglePresentation enters or leaves the immersive session. A failed entry keeps flat mode.
func (a *App) TogglePresentation() {
	if a.mode == widgets.Immersive {
		a.backend.ExitPresentation()
		a.mode = widgets.Flat
		a.log.Infof("presentation: %v", a.mode)
		return
	}
	if err := a.backend.EnterPresentation(); err != nil {
		a.log.Errorf("enter presentation: %v", err)
		return
	}
	a.mode = widgets.Immersive
	a.log.Infof("presentation: %v", a.mode)
}

// Mode returns the current presentation mode.
func (a *App) Mode() widgets.Mode { return a.mode }

// Config returns the startup configuration.
func (a *App) Config() engineconfig.Config { return a.cfg }

// Store exposes the live parameters.
func (a *App) Store() *params.Store { return a.store }

// Scene exposes the active object manager.
func (a *App) Scene() *scene.Manager { return a.scene }

// Widgets exposes the widget registry.
func (a *App) Widgets() *widgets.Registry { return a.widgets }

// Input exposes the dispatcher.
func (a *App) Input() *input.Dispatcher { return a.input }

// Loader exposes the asset loader.
func (a *App) Loader() *assets.Loader { return a.loader }

// Commands exposes the console commands.
func (a *App) Commands() *commands.Registry { return a.commands }

// Log returns the viewer log.
func (a *App) Log() *logger.Logger { return a.log }

// WatchConfig re-applies the environment list and log level whenever the config file changes.
// Parameters edited in the session are left alone.
func (a *App) WatchConfig(l *engineconfig.Loader) {
	l.Watch(func(cfg engineconfig.Config, err error) {
		a.Post(func() { a.ApplyConfig(cfg, err) })
	})
}

// ApplyConfig takes a reloaded config. Runs on the frame goroutine.
func (a *App) ApplyConfig(cfg engineconfig.Config, err error) {
	if err != nil {
		a.log.Errorf("config reload: %v", err)
		return
	}
	a.log.SetLevel(logger.ParseLevel(cfg.Log.Level))
	a.loader.SetEnvironments(cfg.Assets.Environments)
	a.cfg.Assets.Environments = cfg.Assets.Environments
	a.cfg.Log.Level = cfg.Log.Level
	a.log.Infof("config reloaded: %d environments, level %s", len(cfg.Assets.Environments), cfg.Log.Level)
}

// Close stops the loaders and releases every GPU resource the viewer owns. Safe to call twice.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.mail.Close()
	a.loader.Close()
	a.scene.Close()
	a.log.Infof("viewer closed")
}
