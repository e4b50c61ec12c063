package graphics

import (
	"errors"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"dome-viewer/internal/debug"
	"dome-viewer/internal/engineconfig"
	"dome-viewer/internal/fonts"
	"dome-viewer/internal/logger"
	"dome-viewer/internal/scene"
	"dome-viewer/internal/terminal"
	"dome-viewer/internal/viewer"
	"dome-viewer/internal/widgets"
)

const (
	maxPitch      = 1.45
	fontAtlasSize = 48
)

// Backend is the raylib implementation of viewer.Backend. It owns every GPU resource behind a
// scene.Handle and must only be used from the goroutine that called Run.
type Backend struct {
	cfg engineconfig.Config
	log *logger.Logger

	next      scene.Handle
	meshes    map[scene.Handle]*meshEntry
	materials map[scene.Handle]scene.MaterialSpec
	envs      map[scene.Handle]envTexture
	panels    map[string]*panelTexture

	surface    surfaceShader
	surfaceMat rl.Material
	sky        skybox
	vr         *stereo
	hud        *debug.Debug
	term       *terminal.Terminal
	font       rl.Font
	ready      bool

	yaw, pitch float32
}

// New returns a backend; no window exists until Run.
func New(cfg engineconfig.Config, log *logger.Logger) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	return &Backend{
		cfg:       cfg,
		log:       log,
		meshes:    map[scene.Handle]*meshEntry{},
		materials: map[scene.Handle]scene.MaterialSpec{},
		envs:      map[scene.Handle]envTexture{},
		panels:    map[string]*panelTexture{},
		hud:       debug.New(),
	}
}

// Run opens the window, starts app and drives its frame loop until the window is closed.
// ESC is left to the console; close via window button.
func (b *Backend) Run(app *viewer.App) {
	w := b.cfg.Window
	var flags uint32
	if w.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(w.TargetFPS))
	b.init()
	defer b.release()

	b.term = terminal.New(app.Log(), app.Submit, app.Commands().Complete)
	b.term.SetFont(b.font)
	app.Start()
	defer app.Close()

	for !rl.WindowShouldClose() {
		b.term.Update()
		if !b.term.IsOpen() {
			b.handleInput(app)
		}
		app.Tick(b.pose(app))
	}
}

func (b *Backend) init() {
	if s, ok := loadSurfaceShader(); ok {
		b.surface = s
	} else {
		b.log.Errorf("surface shader failed to compile, using the default shader")
	}
	b.surfaceMat = rl.LoadMaterialDefault()
	if b.surface.shader.ID != 0 {
		b.surfaceMat.Shader = b.surface.shader
	}
	near, far := b.cfg.Camera.ClipRange()
	rl.SetClipPlanes(float64(near), float64(far))
	b.sky = loadSkybox(b.log, far)
	b.loadFont()
	b.ready = true
}

// loadFont loads assets.font for the overlays and panels. Without one, raylib's default font is used.
func (b *Backend) loadFont() {
	name := b.cfg.Assets.Font
	if name == "" {
		return
	}
	path, err := fonts.Find(fonts.BaseDirs(), name)
	if err != nil {
		b.log.Warnf("font %q: %v", name, err)
		return
	}
	b.font = rl.LoadFontEx(path, fontAtlasSize, nil)
	if b.font.Texture.ID == 0 {
		b.log.Warnf("font %s failed to load", path)
		return
	}
	rl.SetTextureFilter(b.font.Texture, rl.FilterBilinear)
	b.hud.SetFont(b.font)
	b.log.Infof("font %s", path)
}

// release frees what the viewer did not: shaders, panel textures, the stereo target.
func (b *Backend) release() {
	b.ExitPresentation()
	for id, p := range b.panels {
		rl.UnloadRenderTexture(p.target)
		delete(b.panels, id)
	}
	b.sky.unload()
	if b.font.Texture.ID != 0 {
		rl.UnloadFont(b.font)
		b.font = rl.Font{}
	}
	if b.surface.shader.ID != 0 {
		rl.UnloadShader(b.surface.shader)
	}
	b.ready = false
}

func (b *Backend) handleInput(app *viewer.App) {
	if rl.IsKeyPressed(rl.KeyTab) {
		app.TogglePresentation()
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		speed := b.cfg.Camera.LookSpeed
		b.yaw -= d.X * speed
		b.pitch = math32.Max(-maxPitch, math32.Min(maxPitch, b.pitch-d.Y*speed))
	}
	m := rl.GetMousePosition()
	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	if sw > 0 && sh > 0 {
		app.PointerMove(2*m.X/sw-1, 1-2*m.Y/sh)
	}
	trigger := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	if app.Mode() == widgets.Immersive && rl.IsKeyPressed(rl.KeySpace) {
		trigger = true
	}
	if trigger {
		if id, ok := app.PrimaryAction(); ok {
			b.log.Debugf("hit %s", id)
		}
	}
}

func (b *Backend) pose(app *viewer.App) widgets.Pose {
	return widgets.NewPose(app.StartPose().Position, b.yaw, b.pitch)
}

func (b *Backend) alloc() scene.Handle {
	b.next++
	return b.next
}

// Dispose releases whatever h names. Unknown and zero handles are ignored.
func (b *Backend) Dispose(h scene.Handle) {
	if e, ok := b.meshes[h]; ok {
		delete(b.meshes, h)
		e.release()
		return
	}
	if _, ok := b.materials[h]; ok {
		delete(b.materials, h)
		return
	}
	if e, ok := b.envs[h]; ok {
		delete(b.envs, h)
		rl.UnloadTexture(e.tex)
	}
}

// stereo is the simulated head-mounted display: a side-by-side render target.
type stereo struct {
	config rl.VrStereoConfig
	target rl.RenderTexture2D
}

// EnterPresentation starts side-by-side stereo rendering with a generic headset profile.
func (b *Backend) EnterPresentation() error {
	if !b.ready {
		return errors.New("graphics: no window")
	}
	if b.vr != nil {
		return nil
	}
	device := rl.VrDeviceInfo{
		HResolution:            int32(rl.GetScreenWidth()),
		VResolution:            int32(rl.GetScreenHeight()),
		HScreenSize:            0.133793,
		VScreenSize:            0.0669,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.07,
		InterpupillaryDistance: 0.07,
		LensDistortionValues:   [4]float32{1, 0.22, 0.24, 0},
		ChromaAbCorrection:     [4]float32{0.996, -0.004, 1.014, 0},
	}
	b.vr = &stereo{
		config: rl.LoadVrStereoConfig(device),
		target: rl.LoadRenderTexture(device.HResolution, device.VResolution),
	}
	if b.term != nil {
		b.term.Close()
	}
	return nil
}

// ExitPresentation returns to flat rendering.
func (b *Backend) ExitPresentation() {
	if b.vr == nil {
		return
	}
	rl.UnloadRenderTexture(b.vr.target)
	rl.UnloadVrStereoConfig(b.vr.config)
	b.vr = nil
}
