package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"dome-viewer/internal/logger"
	"dome-viewer/internal/viewer"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
	maxErrorWidth  = 90
)

// Debug draws the status overlay: FPS, memory, presentation mode, active object, pending loads
// and the most recent errors so failed loads are never silent.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStatus   bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns an overlay with FPS and status shown.
func New() *Debug {
	return &Debug{ShowFPS: true, ShowStatus: true}
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Lines returns the status lines for h, top to bottom, with the color to draw each in.
func Lines(h viewer.HUD) ([]string, []bool) {
	lines := []string{
		fmt.Sprintf("mode: %v", h.Mode),
		fmt.Sprintf("object: %v", h.Variant),
	}
	if h.Environment != "" {
		lines = append(lines, "sky: "+h.Environment)
	}
	if h.Pending {
		lines = append(lines, "loading model...")
	}
	isErr := make([]bool, len(lines), len(lines)+len(h.Errors))
	for _, e := range h.Errors {
		lines = append(lines, logger.Truncate(e, maxErrorWidth))
		isErr = append(isErr, true)
	}
	return lines, isErr
}

// Draw renders the enabled overlays at the top-right. Call last in the frame.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw(h viewer.HUD) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	y := int32(padding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawRight(d.lastFpsText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		d.drawRight(d.lastMemText, y, rl.Green)
		y += lineHeight
	}
	if !d.ShowStatus {
		return
	}
	lines, isErr := Lines(h)
	for i, line := range lines {
		c := rl.LightGray
		if isErr[i] {
			c = rl.Red
		}
		d.drawRight(line, y, c)
		y += lineHeight
	}
}

func (d *Debug) drawRight(text string, y int32, c rl.Color) {
	if text == "" {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	if d.font.Texture.ID != 0 {
		sz := float32(fontSize)
		pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(padding), float32(y))
		rl.DrawTextEx(d.font, text, pos, sz, 1, c)
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, c)
}
