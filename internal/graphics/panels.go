package graphics

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"dome-viewer/internal/ui"
	"dome-viewer/internal/viewer"
)

// panelTexture is the offscreen face of one widget. It is redrawn only when the widget is
// dirty and its text or style changed.
type panelTexture struct {
	target rl.RenderTexture2D
	lines  []string
	style  ui.ComputedStyle
	w, h   int32
}

func (b *Backend) panelFor(p viewer.Panel) *panelTexture {
	f := p.Face
	pt, ok := b.panels[p.Widget.ID]
	if ok && (pt.w != f.Width || pt.h != f.Height) {
		rl.UnloadRenderTexture(pt.target)
		ok = false
	}
	if !ok {
		pt = &panelTexture{target: rl.LoadRenderTexture(f.Width, f.Height), w: f.Width, h: f.Height}
		rl.SetTextureFilter(pt.target.Texture, rl.FilterBilinear)
		b.panels[p.Widget.ID] = pt
		pt.paint(f, b.font)
	} else if p.Widget.Dirty && (!slices.Equal(pt.lines, f.Node.Lines) || pt.style != f.Style) {
		pt.paint(f, b.font)
	}
	p.Widget.Dirty = false
	return pt
}

// paint renders f into the texture: background, border, then text lines. A zero font means
// raylib's default.
func (pt *panelTexture) paint(f ui.Face, font rl.Font) {
	s := f.Style
	rl.BeginTextureMode(pt.target)
	rl.ClearBackground(s.Background)
	if s.HasBorder {
		rl.DrawRectangleLinesEx(rl.NewRectangle(0, 0, float32(f.Width), float32(f.Height)), 4, s.Border)
	}
	lines := f.Node.Lines
	total := int32(len(lines))*s.FontSize + int32(max(len(lines)-1, 0))*s.LineGap
	y := (f.Height - total) / 2
	if !s.Center {
		y = s.Padding
	}
	for _, line := range lines {
		x := s.Padding
		if s.Center {
			x = (f.Width - measure(font, line, s.FontSize)) / 2
		}
		if font.Texture.ID != 0 {
			rl.DrawTextEx(font, line, rl.NewVector2(float32(x), float32(y)), float32(s.FontSize), 1, s.Color)
		} else {
			rl.DrawText(line, x, y, s.FontSize, s.Color)
		}
		y += s.FontSize + s.LineGap
	}
	rl.EndTextureMode()
	pt.lines = slices.Clone(lines)
	pt.style = s
}

func measure(font rl.Font, text string, size int32) int32 {
	if font.Texture.ID == 0 {
		return rl.MeasureText(text, size)
	}
	return int32(rl.MeasureTextEx(font, text, float32(size), 1).X)
}

var hoverTint = rl.NewColor(255, 235, 150, 255)

// drawPanel draws the texture on the widget's quad: centered on its position, spanning
// Width × Height along the widget's own X and Y axes, facing its +Z.
func drawPanel(p viewer.Panel, pt *panelTexture) {
	w := p.Widget
	right := w.Orientation.Rotate(mgl32.Vec3{1, 0, 0}).Mul(w.Width / 2)
	up := w.Orientation.Rotate(mgl32.Vec3{0, 1, 0}).Mul(w.Height / 2)
	c := w.Position
	bl, br := c.Sub(right).Sub(up), c.Add(right).Sub(up)
	tr, tl := c.Add(right).Add(up), c.Sub(right).Add(up)

	tint := rl.White
	if p.Hovered {
		tint = hoverTint
	}
	rl.SetTexture(pt.target.Texture.ID)
	rl.Begin(rl.Quads)
	rl.Color4ub(tint.R, tint.G, tint.B, tint.A)
	rl.TexCoord2f(0, 0)
	rl.Vertex3f(bl[0], bl[1], bl[2])
	rl.TexCoord2f(1, 0)
	rl.Vertex3f(br[0], br[1], br[2])
	rl.TexCoord2f(1, 1)
	rl.Vertex3f(tr[0], tr[1], tr[2])
	rl.TexCoord2f(0, 1)
	rl.Vertex3f(tl[0], tl[1], tl[2])
	rl.End()
	rl.SetTexture(0)
}
