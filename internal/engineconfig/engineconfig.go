package engineconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ConfigName and ConfigDir locate config/viewer.yaml relative to the process working directory.
const (
	ConfigName = "viewer"
	ConfigDir  = "config"
	EnvPrefix  = "DOMEVIEW"
)

// Config holds viewer preferences. It is read once at startup; only the environment list and the
// log level are re-applied on live reload. Parameters edited in the session are never written back.
type Config struct {
	Window   Window   `mapstructure:"window"`
	Camera   Camera   `mapstructure:"camera"`
	Dome     Dome     `mapstructure:"dome"`
	Shape    Shape    `mapstructure:"shape"`
	Material Material `mapstructure:"material"`
	Assets   Assets   `mapstructure:"assets"`
	Log      Log      `mapstructure:"log"`
	Startup  Startup  `mapstructure:"startup"`
}

// Window is the desktop window opened in flat mode.
type Window struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Title     string `mapstructure:"title"`
	TargetFPS int    `mapstructure:"target_fps"`
	MSAA      bool   `mapstructure:"msaa"`
}

// Camera places the flat-mode viewer and sets the projection.
type Camera struct {
	FovDeg      float32 `mapstructure:"fov_deg"`
	Near        float32 `mapstructure:"near"`
	Far         float32 `mapstructure:"far"`
	EyeHeight   float32 `mapstructure:"eye_height"`
	EyeDistance float32 `mapstructure:"eye_distance"`
	// LookSpeed is radians of yaw/pitch per pixel of right-drag.
	LookSpeed float32 `mapstructure:"look_speed"`
}

// ClipRange returns the projection's near and far distances. An empty or inverted range falls
// back to the defaults.
func (c Camera) ClipRange() (near, far float32) {
	if c.Near <= 0 || c.Far <= c.Near {
		d := Default().Camera
		return d.Near, d.Far
	}
	return c.Near, c.Far
}

// Dome places the active object and sets its animation damping.
type Dome struct {
	Anchor     [3]float32 `mapstructure:"anchor"`
	Damping    float32    `mapstructure:"damping"`
	TargetSize float32    `mapstructure:"target_size"`
}

// Shape seeds the startup shape parameters. Kind is "icosahedron" or "octahedron".
type Shape struct {
	Kind        string  `mapstructure:"kind"`
	Radius      float32 `mapstructure:"radius"`
	Subdivision int     `mapstructure:"subdivision"`
	ClipHeight  float32 `mapstructure:"clip_height"`
	Wireframe   bool    `mapstructure:"wireframe"`
}

// Material seeds the startup material parameters. Color is "#rrggbb".
type Material struct {
	Roughness     float32 `mapstructure:"roughness"`
	Metalness     float32 `mapstructure:"metalness"`
	Opacity       float32 `mapstructure:"opacity"`
	RotationSpeed float32 `mapstructure:"rotation_speed"`
	Color         string  `mapstructure:"color"`
}

// Assets locates the files the viewer loads.
type Assets struct {
	Environments        []string `mapstructure:"environments"`
	MaxEnvironmentWidth int      `mapstructure:"max_environment_width"`
	MeshExtensions      []string `mapstructure:"mesh_extensions"`
	ModelDir            string   `mapstructure:"model_dir"`
	Font                string   `mapstructure:"font"`
}

// Log sets the log file and the minimum level written to it.
type Log struct {
	Path     string `mapstructure:"path"`
	Level    string `mapstructure:"level"`
	Capacity int    `mapstructure:"capacity"`
}

// Startup picks the presentation mode the window opens in: "flat" or "immersive".
type Startup struct {
	Mode string `mapstructure:"mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:   Window{Width: 1280, Height: 720, Title: "Dome Viewer", TargetFPS: 60, MSAA: true},
		Camera:   Camera{FovDeg: 60, Near: 0.1, Far: 1000, EyeHeight: 1.7, EyeDistance: 2, LookSpeed: 0.004},
		Dome:     Dome{Anchor: [3]float32{0, 0, -5}, Damping: 0.1, TargetSize: 2},
		Shape:    Shape{Kind: "icosahedron", Radius: 1.5, Subdivision: 2},
		Material: Material{Roughness: 0, Metalness: 0.25, Opacity: 1, RotationSpeed: 0.01, Color: "#0077ff"},
		Assets: Assets{
			Environments:        []string{"assets/environments/sky.hdr"},
			MaxEnvironmentWidth: 4096,
			MeshExtensions:      []string{".glb", ".gltf", ".obj", ".iqm", ".vox", ".m3d"},
		},
		Log:     Log{Path: "logs/viewer.txt", Level: "info", Capacity: 200},
		Startup: Startup{Mode: "flat"},
	}
}

// newViper registers every default so environment overrides work for keys absent from the file.
func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.target_fps", d.Window.TargetFPS)
	v.SetDefault("window.msaa", d.Window.MSAA)
	v.SetDefault("camera.fov_deg", d.Camera.FovDeg)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.eye_height", d.Camera.EyeHeight)
	v.SetDefault("camera.eye_distance", d.Camera.EyeDistance)
	v.SetDefault("camera.look_speed", d.Camera.LookSpeed)
	v.SetDefault("dome.anchor", d.Dome.Anchor[:])
	v.SetDefault("dome.damping", d.Dome.Damping)
	v.SetDefault("dome.target_size", d.Dome.TargetSize)
	v.SetDefault("shape.kind", d.Shape.Kind)
	v.SetDefault("shape.radius", d.Shape.Radius)
	v.SetDefault("shape.subdivision", d.Shape.Subdivision)
	v.SetDefault("shape.clip_height", d.Shape.ClipHeight)
	v.SetDefault("shape.wireframe", d.Shape.Wireframe)
	v.SetDefault("material.roughness", d.Material.Roughness)
	v.SetDefault("material.metalness", d.Material.Metalness)
	v.SetDefault("material.opacity", d.Material.Opacity)
	v.SetDefault("material.rotation_speed", d.Material.RotationSpeed)
	v.SetDefault("material.color", d.Material.Color)
	v.SetDefault("assets.environments", d.Assets.Environments)
	v.SetDefault("assets.max_environment_width", d.Assets.MaxEnvironmentWidth)
	v.SetDefault("assets.mesh_extensions", d.Assets.MeshExtensions)
	v.SetDefault("assets.model_dir", d.Assets.ModelDir)
	v.SetDefault("assets.font", d.Assets.Font)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.capacity", d.Log.Capacity)
	v.SetDefault("startup.mode", d.Startup.Mode)
	return v
}

// Loader reads the config and can watch it for edits.
type Loader struct {
	v *viper.Viper
}

// NewLoader looks for viewer.yaml in dir.
func NewLoader(dir string) *Loader {
	return &Loader{v: newViper(dir)}
}

// Load reads config/viewer.yaml plus DOMEVIEW_* overrides. A missing file yields the defaults;
// a malformed one is an error.
func Load() (Config, error) {
	return NewLoader(ConfigDir).Load()
}

// Load reads the file (if present) and decodes the merged settings.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("engineconfig: read: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Default(), fmt.Errorf("engineconfig: decode: %w", err)
	}
	return c, nil
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string { return l.v.ConfigFileUsed() }

// Watch calls fn with the re-read config after every write to the file. fn runs on the watcher
// goroutine. Without a config file there is nothing to watch and Watch does nothing.
func (l *Loader) Watch(fn func(Config, error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}
