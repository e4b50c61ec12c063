package viewer

import (
	"dome-viewer/internal/assets"
	"dome-viewer/internal/scene"
	"dome-viewer/internal/ui"
	"dome-viewer/internal/widgets"
)

// Backend is everything the viewer needs from the platform: GPU resources, mesh decoding,
// environment textures, drawing and the immersive session. All methods run on the frame goroutine.
type Backend interface {
	scene.Renderer
	assets.MeshDecoder
	assets.EnvironmentUploader
	Draw(f *Frame)
	EnterPresentation() error
	ExitPresentation()
}

// Panel is one visible widget and the face to draw on it.
type Panel struct {
	Widget  *widgets.Widget
	Face    ui.Face
	Hovered bool
}

// HUD is the overlay status line.
type HUD struct {
	Mode        widgets.Mode
	Variant     scene.Variant
	Pending     bool
	Environment string
	Errors      []string
}

// Frame is what one tick hands to the backend. It is rebuilt every tick and must not be kept.
type Frame struct {
	Mode        widgets.Mode
	Pose        widgets.Pose
	FovY        float32
	Drawables   []scene.Drawable
	Clip        scene.ClippingPlane
	Environment scene.Handle
	Panels      []Panel
	Ray         widgets.Ray
	HUD         HUD
}
